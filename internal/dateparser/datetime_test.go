package dateparser

import (
	"testing"
	"time"
)

func TestParseISODateTime(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"1985-04-12T23:20:50.52Z", true},
		{"1996-12-19T16:39:57-08:00", true},
		{"1990-12-31T23:59:60Z", true},
		{"1990-12-31T15:59:60-08:00", true},
		{"1937-01-01T12:00:27.87+00:20", true},
		{"1990-12-31t23:59:60z", true},
		{"2009-02-20T08:40Z", true},
		{"2009-02-20T08:40,5Z", false},
		{"2009-02-20T08:40:00,5Z", true},
		{"2009-02-20T25:40Z", false},
		{"2009-02-20T02:99Z", false},
		{"2009-02-20T02:40:61Z", false},
		{"2009-02-30T02:40Z", false},
		{"1963-03-08T14:07-0600", false},
		{"2009-02-20T08:40", false},
		{"2009-02-20T08:40+19:00", false},
		{"2009-02-20 08:40Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseISODateTime(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("ParseISODateTime(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestParseRFC3339(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"1990-12-31T23:59:60Z", true},
		{"1990-12-31 23:59:60Z", true},
		{"1990-12-31t23:59:60z", true},
		{"1985-04-12T23:20:50.52Z", true},
		{"1996-12-19T16:39:57-08:00", true},
		{"2009-02-20T08:40Z", false},
		{"2009-02-20T24:00:00Z", false},
		{"2009-02-20T08:40:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRFC3339(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("ParseRFC3339(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestParseRFC1123(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"Tue, 3 Jun 2008 11:05:30 GMT", true},
		{"3 Jun 2008 11:05:30 GMT", true},
		{"Tue, 03 Jun 2008 11:05 +0200", true},
		{"Wed, 3 Jun 2008 11:05:30 GMT", false},
		{"Tue, 31 Jun 2008 11:05:30 GMT", false},
		{"Tue, 3 Jun 2008 24:05:30 GMT", false},
		{"Tue, 3 June 2008 11:05:30 GMT", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRFC1123(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("ParseRFC1123(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestDateTimeOrdering(t *testing.T) {
	a, err := ParseISODateTime("1996-12-19T16:39:57-08:00")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseRFC3339("1996-12-20T00:39:57Z")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Time().Equal(b.Time()) {
		t.Errorf("expected %v and %v to be the same instant", a.Time(), b.Time())
	}

	leap, err := ParseRFC3339("1990-12-31T23:59:60Z")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(1991, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !leap.Time().Equal(want) {
		t.Errorf("leap second should roll over to %v, got %v", want, leap.Time())
	}
}
