package model

// Bounds enforced on recipes and ingredient lines. The same literals appear in
// the check tags below and in migrations/0001_init.sql.
const (
	MinCookingTime = 1
	MaxCookingTime = 32000

	MinAmount = 1
	MaxAmount = 32000
)

// ShortHashLength is the default number of hex characters kept from a recipe
// digest. The column is sized for MaxShortHashLength.
const (
	ShortHashLength    = 8
	MaxShortHashLength = 16
)

const (
	MaxLengthEmail          = 254
	MaxLengthUserName       = 150
	MaxLengthIngredientName = 128
	MaxLengthIngredientUnit = 64
	MaxLengthTag            = 32
	MaxLengthRecipeName     = 256
)
