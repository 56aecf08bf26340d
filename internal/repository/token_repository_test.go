package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestRefreshUsable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}

	tests := []struct {
		name      string
		revokedAt sql.NullTime
		expiresAt time.Time
		want      bool
	}{
		{"live session", sql.NullTime{}, now.Add(24 * time.Hour), true},
		{"expired", sql.NullTime{}, now.Add(-time.Minute), false},
		{"expires exactly now", sql.NullTime{}, now, false},
		{"revoked", revoked, now.Add(24 * time.Hour), false},
		{"revoked and expired", revoked, now.Add(-time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := refreshUsable(tt.revokedAt, tt.expiresAt, now); got != tt.want {
				t.Errorf("refreshUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}
