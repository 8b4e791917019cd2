package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthorized(t *testing.T) {
	cases := []struct {
		name      string
		owner     string
		requester string
		want      bool
	}{
		{"same identity", "u1", "u1", true},
		{"different identity", "u1", "u2", false},
		{"empty requester", "u1", "", false},
		{"empty owner", "", "u1", false},
		{"both empty", "", "", false},
		{"case sensitive", "abc", "ABC", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAuthorized(tc.owner, tc.requester))
		})
	}
}
