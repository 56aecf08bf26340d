package model

import (
	"errors"
	"testing"
)

func TestNormalizeEmailDomain(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "bare host gets prefix", in: "university.edu", want: "@university.edu"},
		{name: "already canonical", in: "@university.edu", want: "@university.edu"},
		{name: "upper cased input", in: "@MIT.EDU", want: "@mit.edu"},
		{name: "surrounding spaces", in: "  a.edu ", want: "@a.edu"},
		{name: "two at signs", in: "@a@b", wantErr: ErrInvalidEmailDomain},
		{name: "empty", in: "", wantErr: ErrInvalidEmailDomain},
		{name: "lone at sign", in: "@", wantErr: ErrInvalidEmailDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmailDomain(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeEmailDomain(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeEmailDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDomainFromEmail(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain address", in: "bob@a.edu", want: "@a.edu"},
		{name: "subdomain kept verbatim", in: "student@cs.mit.edu", want: "@cs.mit.edu"},
		{name: "mixed case lowered", in: "Bob@A.EDU", want: "@a.edu"},
		{name: "no at sign", in: "bob.a.edu", wantErr: ErrInvalidEmail},
		{name: "multiple at signs", in: "bob@x@a.edu", wantErr: ErrInvalidEmail},
		{name: "trailing at sign", in: "bob@", wantErr: ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DomainFromEmail(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DomainFromEmail(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DomainFromEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
