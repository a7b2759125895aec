package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentVariable(t *testing.T) {
	t.Setenv("EAE6320_TEST_KEY", "value")

	v, err := GetEnvironmentVariable("EAE6320_TEST_KEY")
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = GetEnvironmentVariable("EAE6320_TEST_KEY_THAT_IS_NOT_SET")
	assert.Error(t, err)
}

func TestExecuteCommandRejectsEmpty(t *testing.T) {
	code, err := ExecuteCommand(context.Background(), "   ")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}
