package chart_test

import (
	"errors"
	"testing"

	"podium/internal/chart"
	"podium/internal/faults"
)

func validData() chart.Data {
	return chart.Data{
		Labels: []string{"Q1", "Q2", "Q3"},
		Datasets: []chart.Dataset{
			{Label: "Revenue", Data: []float64{120, 150, 180}},
			{Label: "Costs", Data: []float64{90, 110, 130}},
		},
	}
}

func TestValidateDataAccepts(t *testing.T) {
	if err := chart.ValidateData(validData()); err != nil {
		t.Fatalf("ValidateData failed: %v", err)
	}
}

func TestValidateDataRequiresLabels(t *testing.T) {
	data := validData()
	data.Labels = nil
	err := chart.ValidateData(data)
	if err == nil {
		t.Fatal("expected error for missing labels")
	}
	if faults.CodeOf(err) != faults.CodeInvalidChartData {
		t.Fatalf("unexpected code %q", faults.CodeOf(err))
	}
}

func TestValidateDataRequiresDatasets(t *testing.T) {
	data := validData()
	data.Datasets = nil
	if err := chart.ValidateData(data); err == nil {
		t.Fatal("expected error for missing datasets")
	}
}

func TestValidateDataRequiresDatasetLabel(t *testing.T) {
	data := validData()
	data.Datasets[1].Label = "  "
	err := chart.ValidateData(data)
	if err == nil {
		t.Fatal("expected error for unlabeled dataset")
	}
	var fe *faults.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured fault, got %T", err)
	}
	if fe.Details["dataset"] != 1 {
		t.Fatalf("expected dataset index 1 in details, got %v", fe.Details["dataset"])
	}
}

func TestValidateDataLengthMismatch(t *testing.T) {
	data := chart.Data{
		Labels:   []string{"A", "B", "C"},
		Datasets: []chart.Dataset{{Label: "Series", Data: []float64{1, 2}}},
	}
	err := chart.ValidateData(data)
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
	var fe *faults.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured fault, got %T", err)
	}
	if fe.Details["data_length"] != 2 || fe.Details["labels_length"] != 3 {
		t.Fatalf("expected both lengths in details, got %v", fe.Details)
	}
}

func TestValidateDataMatchingLengthsPass(t *testing.T) {
	data := chart.Data{
		Labels:   []string{"A", "B"},
		Datasets: []chart.Dataset{{Label: "Series", Data: []float64{1, 2}}},
	}
	if err := chart.ValidateData(data); err != nil {
		t.Fatalf("ValidateData failed: %v", err)
	}
}

func TestValidateColor(t *testing.T) {
	cases := []struct {
		spec  string
		valid bool
	}{
		{"#FF0000", true},
		{"#00ff00", true},
		{"rgba(59, 130, 246, 0.8)", true},
		{"rgb(255, 0, 0)", true},
		{"#INVALID", false},
		{"red", false},
		{"#FFF", false},
		{"", false},
	}
	for _, tc := range cases {
		err := chart.ValidateColor(tc.spec)
		if tc.valid && err != nil {
			t.Errorf("ValidateColor(%q) = %v, want nil", tc.spec, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("ValidateColor(%q) = nil, want error", tc.spec)
		}
	}
}

func TestValidateDataRejectsInvalidDatasetColor(t *testing.T) {
	data := validData()
	data.Datasets[0].BackgroundColor = chart.ColorSpecs{"#INVALID"}
	err := chart.ValidateData(data)
	if err == nil {
		t.Fatal("expected error for invalid color")
	}
	var fe *faults.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured fault, got %T", err)
	}
	if fe.Details["value"] != "#INVALID" {
		t.Fatalf("expected offending value in details, got %v", fe.Details)
	}
}

func TestParseColorHex(t *testing.T) {
	parsed, err := chart.ParseColor("#3B82F6")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if parsed.R != 0x3B || parsed.G != 0x82 || parsed.B != 0xF6 || parsed.A != 0xFF {
		t.Fatalf("unexpected color %#v", parsed)
	}
}

func TestParseKindDefaultsToBar(t *testing.T) {
	if kind := chart.ParseKind("sunburst"); kind != chart.KindBar {
		t.Fatalf("expected bar fallback, got %q", kind)
	}
	if kind := chart.ParseKind(" Line "); kind != chart.KindLine {
		t.Fatalf("expected line, got %q", kind)
	}
}
