// server/internal/api/handlers/validation.go
package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"square-feet-api/config"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type marketRules struct {
	city, state, country string
	zip                  *regexp.Regexp
}

var (
	market       atomic.Pointer[marketRules]
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the market_* tags on gin's validator and sets the
// market they check against. A tag accepts any value when its market setting
// is empty. Field names in validation errors use their json names.
//
// The validator caches compiled structs, so the tags are registered once and
// read the current rules on every call.
func RegisterValidators(cfg config.MarketConfig) error {
	rules := &marketRules{city: cfg.City, state: cfg.State, country: cfg.Country}
	if cfg.ZipPattern != "" {
		re, err := regexp.Compile(cfg.ZipPattern)
		if err != nil {
			return fmt.Errorf("invalid market zip pattern %q: %w", cfg.ZipPattern, err)
		}
		rules.zip = re
	}
	market.Store(rules)

	registerOnce.Do(func() { registerErr = registerTags() })
	return registerErr
}

func registerTags() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	validators := map[string]validator.Func{
		"market_city":    equalFoldOrUnset(func(r *marketRules) string { return r.city }),
		"market_state":   equalFoldOrUnset(func(r *marketRules) string { return r.state }),
		"market_country": equalFoldOrUnset(func(r *marketRules) string { return r.country }),
		"market_zip": func(fl validator.FieldLevel) bool {
			r := market.Load()
			return r == nil || r.zip == nil || r.zip.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s: %w", tag, err)
		}
	}
	return nil
}

func equalFoldOrUnset(field func(*marketRules) string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		r := market.Load()
		if r == nil || field(r) == "" {
			return true
		}
		return strings.EqualFold(strings.TrimSpace(fl.Field().String()), field(r))
	}
}

// validationDetails flattens binding errors into "field: rule" messages.
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out = append(out, field+": failed "+msg)
	}
	return out
}
