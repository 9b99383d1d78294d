package mongo

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toBSON round-trips a typed document through the bson codec into the generic
// map form the bulk upsert path works with.
func toBSON(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Money amounts are stored as Decimal128 so that the database never holds
// binary-float artefacts; the domain works in shopspring decimals.

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// Decimal128 caps out at 34 significant digits; shopspring does not.
		return primitive.Decimal128{}, fmt.Errorf("encoding amount %q: %w", d.String(), err)
	}
	return d128, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decoding amount %q: %w", d.String(), err)
	}
	return out, nil
}
