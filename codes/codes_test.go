package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	assert.Equal(t, "invalid or expired token", InvalidToken.String())
	assert.Equal(t, "unauthenticated request", Unauthenticated.String())
	assert.Equal(t, "bad authentication data", BadAuthenticationData.String())
	assert.Equal(t, "bad input data", BadInputData.String())
	assert.Equal(t, "internal error", Internal.String())
	assert.Equal(t, "not found", NotFound.String())
	assert.Equal(t, "permission denied", Denied.String())
	assert.Equal(t, "path outside the storage root", ConfinementViolation.String())
	assert.Equal(t, "already exists", AlreadyExists.String())
	assert.Equal(t, "invalid name", InvalidName.String())
	assert.Equal(t, "target is inside the source", RecursiveTarget.String())
	assert.Equal(t, "operation not allowed on this target", ForbiddenTarget.String())
	assert.Equal(t, "corrupted or invalid archive", CorruptArchive.String())
	assert.Equal(t, "FIXME: this should be a helpful message", Success.String())
}

func TestNewErr(t *testing.T) {
	err := NewErr(BadInputData, "")
	assert.Equal(t, "bad input data", err.Message)
}

func TestNewErr_withCustom(t *testing.T) {
	err := NewErr(BadInputData, "custom message")
	assert.Equal(t, "custom message", err.Message)
}

func TestErr_Error(t *testing.T) {
	err := NewErr(Denied, "")
	assert.Equal(t, "7: permission denied", err.Error())
}
