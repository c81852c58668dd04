package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fraudgate/internal/domain"
	"fraudgate/internal/rules"
)

func hit(rule string, severity rules.Severity, message string) rules.Hit {
	return rules.Hit{Rule: rule, Severity: severity, Message: message}
}

func TestFuse_Block(t *testing.T) {
	th := DefaultThresholds()

	t.Run("high severity hit blocks with its message", func(t *testing.T) {
		hits := []rules.Hit{
			hit("geo_jump", rules.SeverityMedium, "Geo-location change"),
			hit("amount_spike", rules.SeverityHigh, "Sudden amount spike"),
		}
		action, reason := Fuse(hits, 0.1, 0.1, th)
		assert.Equal(t, domain.ActionBlock, action)
		assert.Equal(t, "Sudden amount spike", reason)
	})

	t.Run("risk at block threshold blocks regardless of rule hits", func(t *testing.T) {
		action, reason := Fuse(nil, 0.85, 0.0, th)
		assert.Equal(t, domain.ActionBlock, action)
		assert.Equal(t, ReasonHighFraudProbability, reason)
	})

	t.Run("first high hit wins over risk reason", func(t *testing.T) {
		hits := []rules.Hit{hit("velocity", rules.SeverityHigh, "High transaction velocity")}
		action, reason := Fuse(hits, 0.99, 0.99, th)
		assert.Equal(t, domain.ActionBlock, action)
		assert.Equal(t, "High transaction velocity", reason)
	})
}

func TestFuse_Flag(t *testing.T) {
	th := DefaultThresholds()

	t.Run("non-high hit flags with the first hit's message", func(t *testing.T) {
		hits := []rules.Hit{
			hit("geo_jump", rules.SeverityMedium, "Geo-location change"),
			hit("odd_hour", rules.SeverityLow, "Unusual transaction time"),
		}
		action, reason := Fuse(hits, 0.1, 0.1, th)
		assert.Equal(t, domain.ActionFlag, action)
		assert.Equal(t, "Geo-location change", reason)
	})

	t.Run("elevated risk flags without rule hits", func(t *testing.T) {
		action, reason := Fuse(nil, 0.5, 0.0, th)
		assert.Equal(t, domain.ActionFlag, action)
		assert.Equal(t, ReasonElevatedRisk, reason)
	})

	t.Run("anomaly alone flags, never blocks", func(t *testing.T) {
		action, reason := Fuse(nil, 0.0, 0.99, th)
		assert.Equal(t, domain.ActionFlag, action)
		assert.Equal(t, ReasonAnomalousBehavior, reason)
	})

	t.Run("risk reason wins when both scores cross their flag thresholds", func(t *testing.T) {
		action, reason := Fuse(nil, 0.6, 0.9, th)
		assert.Equal(t, domain.ActionFlag, action)
		assert.Equal(t, ReasonElevatedRisk, reason)
	})
}

func TestFuse_Allow(t *testing.T) {
	action, reason := Fuse(nil, 0.49, 0.69, DefaultThresholds())
	assert.Equal(t, domain.ActionAllow, action)
	assert.Equal(t, ReasonNormal, reason)
}

func TestFuse_RiskMonotonicity(t *testing.T) {
	// Increasing risk, all else fixed, never softens the action.
	th := DefaultThresholds()
	rank := map[domain.Action]int{domain.ActionAllow: 0, domain.ActionFlag: 1, domain.ActionBlock: 2}

	prev := -1
	for risk := 0.0; risk <= 1.0; risk += 0.05 {
		action, _ := Fuse(nil, risk, 0.3, th)
		assert.GreaterOrEqual(t, rank[action], prev, "risk=%f", risk)
		prev = rank[action]
	}
}

func TestFuse_Totality(t *testing.T) {
	actions := map[domain.Action]bool{domain.ActionAllow: true, domain.ActionFlag: true, domain.ActionBlock: true}
	cases := [][2]float64{{0, 0}, {0.5, 0.7}, {1, 1}, {0.84, 0.69}}
	for _, c := range cases {
		action, reason := Fuse(nil, c[0], c[1], DefaultThresholds())
		assert.True(t, actions[action])
		assert.NotEmpty(t, reason)
	}
}
