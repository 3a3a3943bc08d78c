package domain

import "testing"

func TestRuleSetDefaults(t *testing.T) {
	empty := RuleSet{}

	base, err := empty.BasePoint()
	if err != nil || base != DefaultBasePoint {
		t.Errorf("BasePoint = %d, %v; want %d, nil", base, err, DefaultBasePoint)
	}
	mult, err := empty.SoloMultiplier()
	if err != nil || mult != DefaultSoloMultiplier {
		t.Errorf("SoloMultiplier = %d, %v; want %d, nil", mult, err, DefaultSoloMultiplier)
	}
	cent, err := empty.CentFactor()
	if err != nil || cent != DefaultCentFactor {
		t.Errorf("CentFactor = %v, %v; want %v, nil", cent, err, DefaultCentFactor)
	}
}

func TestRuleSetCoercion(t *testing.T) {
	tests := []struct {
		name    string
		rules   RuleSet
		want    int
		wantErr bool
	}{
		{name: "int value", rules: RuleSet{RuleBasePoint: 2}, want: 2},
		{name: "json float value", rules: RuleSet{RuleBasePoint: float64(3)}, want: 3},
		{name: "string value", rules: RuleSet{RuleBasePoint: "4"}, want: 4},
		{name: "garbage string", rules: RuleSet{RuleBasePoint: "vier"}, wantErr: true},
		{name: "zero value", rules: RuleSet{RuleBasePoint: 0}, wantErr: true},
		{name: "negative value", rules: RuleSet{RuleBasePoint: -1}, wantErr: true},
		{name: "bool value", rules: RuleSet{RuleBasePoint: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rules.BasePoint()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BasePoint = %d, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BasePoint error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("BasePoint = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRuleSetCentFactorFromString(t *testing.T) {
	rules := RuleSet{RuleCentFactor: "0.10"}
	got, err := rules.CentFactor()
	if err != nil {
		t.Fatalf("CentFactor error: %v", err)
	}
	if got != 0.10 {
		t.Fatalf("CentFactor = %v, want 0.10", got)
	}
}

func TestDefaultRulesResolve(t *testing.T) {
	rules := DefaultRules()
	if base, err := rules.BasePoint(); err != nil || base != 1 {
		t.Errorf("BasePoint = %d, %v; want 1, nil", base, err)
	}
	if mult, err := rules.SoloMultiplier(); err != nil || mult != 3 {
		t.Errorf("SoloMultiplier = %d, %v; want 3, nil", mult, err)
	}
}
