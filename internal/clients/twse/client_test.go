package twse

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1,234,567", 1234567, false},
		{" 42.5 ", 42.5, false},
		{"-123", -123, false},
		{"", 0, true},
		{"-", 0, true},
		{"n/a", 0, true},
	}

	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseNumber(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseNumber(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRocPeriod(t *testing.T) {
	if got := rocPeriod("113", "2"); got != "2024Q2" {
		t.Errorf("rocPeriod(113, 2) = %s, want 2024Q2", got)
	}
	if got := rocPeriod(" 114", " 1"); got != "2025Q1" {
		t.Errorf("rocPeriod(114, 1) = %s, want 2025Q1", got)
	}
}

func TestBuildQuarter(t *testing.T) {
	row := statementRow{
		"年度":        "113",
		"季別":        "3",
		"營業收入":      "100,000",
		"營業毛利（毛損）":  "42,000",
		"基本每股盈餘（元）": "12.54",
	}

	q, err := buildQuarter(row)
	if err != nil {
		t.Fatalf("buildQuarter() error: %v", err)
	}

	if q.Period != "2024Q3" {
		t.Errorf("Period = %s, want 2024Q3", q.Period)
	}
	if q.Revenue != 100000 {
		t.Errorf("Revenue = %v, want 100000", q.Revenue)
	}
	if math.Abs(q.GrossMargin-0.42) > 1e-9 {
		t.Errorf("GrossMargin = %v, want 0.42", q.GrossMargin)
	}
	if math.Abs(q.EPS-12.54) > 1e-9 {
		t.Errorf("EPS = %v, want 12.54", q.EPS)
	}
}

func TestBuildQuarterMissingRevenue(t *testing.T) {
	if _, err := buildQuarter(statementRow{"年度": "113", "季別": "1"}); err == nil {
		t.Error("expected error for missing revenue")
	}
}
