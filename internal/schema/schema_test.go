package schema

import (
	"testing"
)

func TestDefName(t *testing.T) {
	tests := []struct {
		group string
		want  string
	}{
		{"general", "GeneralModel"},
		{"model_scope", "ModelScopeModel"},
		{"optimisation_problem", "OptimisationProblemModel"},
		{"asset__candidates", "AssetCandidatesModel"},
		{"lp", "LpModel"},
		{"MIXED_Case", "MixedCaseModel"},
	}
	for _, tt := range tests {
		if got := DefName(tt.group); got != tt.want {
			t.Errorf("DefName(%q) = %q, want %q", tt.group, got, tt.want)
		}
	}
}

func TestSchemaFilename(t *testing.T) {
	if got := KindTool.SchemaFilename(); got != "tool-schema.yaml" {
		t.Errorf("tool filename = %q", got)
	}
	if got := KindUseCase.SchemaFilename(); got != "use-case-schema.yaml" {
		t.Errorf("use-case filename = %q", got)
	}
}

func TestValues(t *testing.T) {
	tool := KindTool.Values()
	if len(tool) != 4 || tool[2] != "dev" {
		t.Errorf("tool values = %v", tool)
	}
	useCase := KindUseCase.Values()
	if len(useCase) != 3 {
		t.Errorf("use-case values = %v", useCase)
	}
	for _, v := range useCase {
		if v == "dev" {
			t.Error("use-case values must not include dev")
		}
	}
	if useCase[len(useCase)-1] != "?" {
		t.Errorf("unknown literal must come last, got %v", useCase)
	}
}
