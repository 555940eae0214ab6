package app

import (
	"testing"

	"github.com/dkeye/Chatter/internal/domain"
)

func TestResolveUsername(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice"}

	tests := []struct {
		name     string
		user     *domain.User
		rawQuery string
		want     string
	}{
		{
			name: "authenticated user keeps account username",
			user: alice,
			want: "alice",
		},
		{
			name:     "authenticated user ignores guest parameter",
			user:     alice,
			rawQuery: "guest=test",
			want:     "alice",
		},
		{
			name:     "guest parameter gets prefixed",
			rawQuery: "guest=test",
			want:     "guest_test",
		},
		{
			name:     "guest parameter is url-decoded",
			rawQuery: "guest=caf%C3%A9",
			want:     "guest_café",
		},
		{
			name:     "missing guest parameter",
			rawQuery: "other=1",
			want:     "",
		},
		{
			name:     "empty guest value",
			rawQuery: "guest=",
			want:     "",
		},
		{
			name:     "empty query",
			rawQuery: "",
			want:     "",
		},
		{
			name:     "malformed escape degrades to empty",
			rawQuery: "guest=%zz",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUsername(tt.user, tt.rawQuery)
			if got != tt.want {
				t.Errorf("ResolveUsername() = %q, want %q", got, tt.want)
			}
		})
	}
}
