package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleJobsJSON(t *testing.T) {
	found := RoleJobs{Role: "Data Analyst", Links: []JobLink{{Title: "Analyst", URL: "https://example.com/1"}}}
	b, err := json.Marshal(found)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"Data Analyst","links":[{"title":"Analyst","url":"https://example.com/1"}]}`, string(b))

	failed := RoleJobs{Role: "QA", Err: errors.New("timeout")}
	b, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"QA","links":null,"error":"timeout"}`, string(b))
}

func TestRoleJobsFound(t *testing.T) {
	assert.True(t, RoleJobs{Links: []JobLink{{URL: "u"}}}.Found())
	assert.False(t, RoleJobs{}.Found())
	assert.False(t, RoleJobs{Links: []JobLink{{URL: "u"}}, Err: errors.New("x")}.Found())
}
