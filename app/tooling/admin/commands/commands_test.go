package commands_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lockedfyi/oracle/app/tooling/admin/commands"
	"github.com/lockedfyi/oracle/foundation/oracle/curve"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"github.com/lockedfyi/oracle/foundation/oracle/database/storage/memory"
	"github.com/stretchr/testify/require"
)

const buyer = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"

func newDatabase(t *testing.T) *database.Database {
	db, err := database.New(9, memory.New(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		price, err := curve.Price(db.Supply())
		require.NoError(t, err)

		p, err := database.NewPurchase(buyer, buyer, "", price, nil)
		require.NoError(t, err)

		require.NoError(t, db.Append(database.NewRecord(db.LatestRecord(), db.Supply()+1, p, price)))
	}

	return db
}

func Test_Supply(t *testing.T) {
	db := newDatabase(t)

	var buf bytes.Buffer
	require.NoError(t, commands.Supply(&buf, db, curve.Default))

	out := buf.String()
	require.Contains(t, out, "Initial Supply: 9\n")
	require.Contains(t, out, "Supply:         12\n")

	price, err := curve.Price(12)
	require.NoError(t, err)
	require.Contains(t, out, curve.ToDecimal(price))
}

func Test_Purchases(t *testing.T) {
	db := newDatabase(t)

	var buf bytes.Buffer
	require.NoError(t, commands.Purchases(&buf, db, "", ""))
	require.Equal(t, 3, strings.Count(buf.String(), "Key: "))

	buf.Reset()
	require.NoError(t, commands.Purchases(&buf, db, "11", "11"))
	require.Equal(t, 1, strings.Count(buf.String(), "Key: 11 "))

	require.Error(t, commands.Purchases(&buf, db, "bill", ""))
}

var _ commands.Pricer = curve.Curve{}
