package pricing

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"bundle-manager/models"
)

// PricingConfig is the YAML pricing rules file
type PricingConfig struct {
	Currency string `yaml:"currency"`
	// DiscountPercent applies when no rule matches
	DiscountPercent float64 `yaml:"discountPercent"`
	// RoundEnding, when set, makes suggested prices end in this fraction (e.g. "0.99")
	RoundEnding string `yaml:"roundEnding"`
	Rules       []Rule `yaml:"rules"`
}

// Rule discounts the sum of item prices of a bundle
type Rule struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Active          bool    `yaml:"active"`
	Priority        int     `yaml:"priority"`
	BundleType      string  `yaml:"bundleType"`
	MinItems        int     `yaml:"minItems"`
	DiscountPercent float64 `yaml:"discountPercent"`
}

// Engine suggests bundle prices from item prices
type Engine struct {
	config      *PricingConfig
	roundEnding decimal.Decimal
	hasEnding   bool
}

// DefaultConfig is used when no pricing file is configured
func DefaultConfig() *PricingConfig {
	return &PricingConfig{
		Currency:        "USD",
		DiscountPercent: 10,
		RoundEnding:     "0.99",
	}
}

// NewEngine loads the pricing rules from configPath. An empty path uses DefaultConfig.
func NewEngine(configPath string) (*Engine, error) {
	if configPath == "" {
		log.Info("ℹ️  PricingEngine: no pricing config, using defaults")
		return NewEngineFromConfig(DefaultConfig())
	}

	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read pricing config")
	}

	var config PricingConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "failed to parse pricing config")
	}

	engine, err := NewEngineFromConfig(&config)
	if err != nil {
		return nil, err
	}
	log.Infof("✅ PricingEngine: loaded %d rules from %s", len(config.Rules), configPath)
	return engine, nil
}

// NewEngineFromConfig validates config and builds an Engine
func NewEngineFromConfig(config *PricingConfig) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "invalid pricing config")
	}

	e := &Engine{config: config}
	if config.RoundEnding != "" {
		ending, err := decimal.NewFromString(config.RoundEnding)
		if err != nil || ending.IsNegative() || ending.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, errors.Errorf("invalid pricing config: roundEnding %q must be in [0, 1)", config.RoundEnding)
		}
		e.roundEnding = ending
		e.hasEnding = true
	}

	// Highest priority first
	sort.SliceStable(config.Rules, func(i, j int) bool {
		return config.Rules[i].Priority > config.Rules[j].Priority
	})
	return e, nil
}

func validateConfig(config *PricingConfig) error {
	if config.Currency == "" {
		return errors.New("currency is required")
	}
	if config.DiscountPercent < 0 || config.DiscountPercent >= 100 {
		return errors.New("discountPercent must be in [0, 100)")
	}
	for _, r := range config.Rules {
		if r.ID == "" {
			return errors.New("rule id is required")
		}
		if r.DiscountPercent < 0 || r.DiscountPercent >= 100 {
			return errors.Errorf("rule %s: discountPercent must be in [0, 100)", r.ID)
		}
		if r.BundleType != "" && !models.BundleType(r.BundleType).Valid() {
			return errors.Errorf("rule %s: unknown bundleType %s", r.ID, r.BundleType)
		}
	}
	return nil
}

// matchRule returns the first active rule for the bundle type and item count
func (e *Engine) matchRule(bundleType models.BundleType, itemCount int) *Rule {
	for i := range e.config.Rules {
		r := &e.config.Rules[i]
		if !r.Active {
			continue
		}
		if r.BundleType != "" && r.BundleType != string(bundleType) {
			continue
		}
		if itemCount < r.MinItems {
			continue
		}
		return r
	}
	return nil
}

// SuggestPrice returns the discounted sum of the item prices.
// The second value is false when there is nothing to price.
func (e *Engine) SuggestPrice(bundleType models.BundleType, itemPrices []decimal.Decimal) (decimal.Decimal, bool) {
	if len(itemPrices) == 0 {
		return decimal.Zero, false
	}

	total := decimal.Zero
	for _, p := range itemPrices {
		total = total.Add(p)
	}
	if !total.IsPositive() {
		return decimal.Zero, false
	}

	discount := e.config.DiscountPercent
	if rule := e.matchRule(bundleType, len(itemPrices)); rule != nil {
		discount = rule.DiscountPercent
		log.Debugf("PricingEngine: rule %s matched (%s, %d items)", rule.ID, bundleType, len(itemPrices))
	}

	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(discount)).Div(decimal.NewFromInt(100))
	price := total.Mul(factor).Round(2)
	return e.applyEnding(price), true
}

// applyEnding moves the price down to the closest amount ending in roundEnding
func (e *Engine) applyEnding(price decimal.Decimal) decimal.Decimal {
	if !e.hasEnding {
		return price
	}
	rounded := price.Floor().Add(e.roundEnding)
	if rounded.GreaterThan(price) {
		rounded = rounded.Sub(decimal.NewFromInt(1))
	}
	if !rounded.IsPositive() {
		return price
	}
	return rounded
}
