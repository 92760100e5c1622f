// Package deployment maintains access to the deployment file that fixes
// the lock an oracle serves and the supply it starts from. The values are
// read once at startup and never change afterwards.
package deployment

import (
	"errors"
	"fmt"
	"os"

	"github.com/lockedfyi/oracle/foundation/oracle/curve"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"gopkg.in/yaml.v3"
)

// Curve holds the optional curve parameters of a deployment.
type Curve struct {
	ModifierNumerator   uint64 `yaml:"modifier_numerator"`
	ModifierDenominator uint64 `yaml:"modifier_denominator"`
	Decimals            *uint  `yaml:"decimals"`
}

// Deployment represents the deployment file.
type Deployment struct {
	Name          string           `yaml:"name"`           // Name of the lock used in logs.
	Lock          database.Account `yaml:"lock"`           // The only account allowed to authorize purchases.
	InitialSupply uint64           `yaml:"initial_supply"` // Keys issued before this oracle was attached.
	Curve         Curve            `yaml:"curve"`
}

// =============================================================================

// Load opens and consumes the deployment file.
func Load(path string) (Deployment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Deployment{}, err
	}

	return Parse(content)
}

// Parse decodes and validates the contents of a deployment file.
func Parse(content []byte) (Deployment, error) {
	var dep Deployment
	if err := yaml.Unmarshal(content, &dep); err != nil {
		return Deployment{}, fmt.Errorf("decoding deployment: %w", err)
	}

	lock, err := database.ToAccount(string(dep.Lock))
	if err != nil {
		return Deployment{}, fmt.Errorf("lock %q: %w", dep.Lock, err)
	}
	dep.Lock = lock

	if dep.InitialSupply > curve.MaxSupply {
		return Deployment{}, fmt.Errorf("initial supply %d exceeds %d", dep.InitialSupply, uint64(curve.MaxSupply))
	}

	if _, err := dep.BuildCurve(); err != nil {
		return Deployment{}, err
	}

	return dep, nil
}

// BuildCurve constructs the bonding curve described by the deployment. Any
// parameter left out takes the default curve's value.
func (d Deployment) BuildCurve() (curve.Curve, error) {
	num := d.Curve.ModifierNumerator
	den := d.Curve.ModifierDenominator

	switch {
	case num == 0 && den == 0:
		num, den = curve.ModifierNumerator, curve.ModifierDenominator
	case num == 0 || den == 0:
		return curve.Curve{}, errors.New("curve modifier needs both a numerator and a denominator")
	}

	decimals := uint(curve.Decimals)
	if d.Curve.Decimals != nil {
		decimals = *d.Curve.Decimals
	}

	return curve.New(num, den, decimals)
}
