package apperr_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"claude-yolo/internal/apperr"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain",
			err:  apperr.New(apperr.ErrNotFound, "cli not found"),
			want: "cli not found",
		},
		{
			name: "wrapped",
			err:  apperr.Wrap(stderrors.New("permission denied"), apperr.ErrFileWrite, "write mode file"),
			want: "write mode file: permission denied",
		},
		{
			name: "formatted",
			err:  apperr.Newf(apperr.ErrNotFound, "missing %s", "/tmp/x"),
			want: "missing /tmp/x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, apperr.Wrap(nil, apperr.ErrInternal, "x"))
	assert.Nil(t, apperr.Wrapf(nil, apperr.ErrInternal, "x %d", 1))
}

func TestCodeMatching(t *testing.T) {
	base := apperr.New(apperr.ErrConsentDeclined, "declined")
	outer := fmt.Errorf("run: %w", base)

	assert.True(t, apperr.HasCode(outer, apperr.ErrConsentDeclined))
	assert.False(t, apperr.HasCode(outer, apperr.ErrNotFound))
	assert.Equal(t, apperr.ErrConsentDeclined, apperr.CodeOf(outer))
	assert.Equal(t, apperr.ErrInternal, apperr.CodeOf(stderrors.New("foreign")))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := apperr.Wrap(cause, apperr.ErrFileWrite, "write patched cli")
	assert.ErrorIs(t, err, cause)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, apperr.ExitCode(nil))
	assert.Equal(t, 1, apperr.ExitCode(apperr.New(apperr.ErrNotFound, "x")))
	assert.Equal(t, 1, apperr.ExitCode(stderrors.New("x")))
}
