package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig carries the billing parameters operators may tune without a
// redeploy: the jurisdiction tax rate and the set of page categories every
// contract, reading and summary is keyed on.
type BillingConfig struct {
	TaxRate    float64  `mapstructure:"taxRate"`
	Categories []string `mapstructure:"categories"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		TaxRate:    0.05,
		Categories: []string{"mono", "color_a4", "color_a3"},
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/printbill/config") // Volume-mounted config
	v.AddConfigPath("/etc/printbill")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("PRINTBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultBillingConfig()
		v.SetDefault("billing.taxRate", defaults.TaxRate)
		v.SetDefault("billing.categories", defaults.Categories)
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

// NewStaticBillingConfigHolder returns a holder pinned to cfg. Test helper.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return errors.New("billing.taxRate must be in [0, 1)")
	}
	if len(cfg.Categories) == 0 {
		return errors.New("billing.categories cannot be empty")
	}
	seen := map[string]bool{}
	for _, c := range cfg.Categories {
		if strings.TrimSpace(c) == "" {
			return errors.New("billing.categories cannot contain blank entries")
		}
		if seen[c] {
			return errors.New("billing.categories cannot contain duplicates")
		}
		seen[c] = true
	}
	return nil
}
