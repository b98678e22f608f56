package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/serenity-app/serenity-backend/internal/pkg/errors"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{pkgerrors.ErrNotFound, http.StatusNotFound},
		{pkgerrors.ErrForbidden, http.StatusForbidden},
		{pkgerrors.ErrInvalidArgument, http.StatusBadRequest},
		{pkgerrors.ErrQuotaExceeded, http.StatusForbidden},
		{pkgerrors.ErrRateLimited, http.StatusTooManyRequests},
		{pkgerrors.ErrConflict, http.StatusConflict},
		{errors.New("anything else"), http.StatusInternalServerError},
		{fmt.Errorf("free tier allows 2 sessions per week: %w", pkgerrors.ErrQuotaExceeded), http.StatusForbidden},
	}
	for _, tc := range cases {
		if got := statusForError(tc.err); got != tc.want {
			t.Fatalf("statusForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
