package deployment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lockedfyi/oracle/foundation/oracle/curve"
	"github.com/lockedfyi/oracle/foundation/oracle/deployment"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	content := `
name: locked-fyi
lock: "0xdd6b972ffcc631a62cae1bb9d80b7ff429c8eba4"
initial_supply: 9
`

	t.Log("Given the need to load a deployment file.")
	{
		path := filepath.Join(t.TempDir(), "deployment.yaml")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write the deployment file: %v", failed, err)
		}

		dep, err := deployment.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the deployment: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the deployment.", success)

		if dep.Lock != "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4" {
			t.Fatalf("\t%s\tShould normalize the lock account: got[%s]", failed, dep.Lock)
		}
		if dep.InitialSupply != 9 || dep.Name != "locked-fyi" {
			t.Fatalf("\t%s\tShould decode every field: got[%+v]", failed, dep)
		}
		t.Logf("\t%s\tShould decode every field.", success)

		c, err := dep.BuildCurve()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build the curve: %v", failed, err)
		}
		if !c.Modifier().Equal(curve.Default.Modifier()) || c.Decimals() != curve.Decimals {
			t.Fatalf("\t%s\tShould fall back to the default curve.", failed)
		}
		t.Logf("\t%s\tShould fall back to the default curve.", success)
	}
}

func Test_Invalid(t *testing.T) {
	tt := map[string]string{
		"bad lock":      "lock: 0x1234\n",
		"no lock":       "initial_supply: 1\n",
		"supply":        "lock: \"0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4\"\ninitial_supply: 9223372036854775807\n",
		"half modifier": "lock: \"0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4\"\ncurve:\n  modifier_numerator: 3\n",
		"decimals":      "lock: \"0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4\"\ncurve:\n  decimals: 30\n",
		"yaml":          "lock: [\n",
	}

	t.Log("Given the need to reject an invalid deployment.")
	{
		for name, content := range tt {
			if _, err := deployment.Parse([]byte(content)); err == nil {
				t.Fatalf("\t%s\tShould reject the %s deployment.", failed, name)
			}
			t.Logf("\t%s\tShould reject the %s deployment.", success, name)
		}
	}
}
