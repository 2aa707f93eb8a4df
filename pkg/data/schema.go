package data

// Schema describes the structure of the credit default dataset.
type Schema struct {
	RawLabel    string   // label column name as it appears in the source files
	Label       string   // label column name after cleaning
	ID          string   // row identifier, not a feature
	Categorical []string // nominal columns that get one-hot encoded
}

// CreditSchema is the layout of the credit card default files.
var CreditSchema = Schema{
	RawLabel:    "default payment next month",
	Label:       "default",
	ID:          "ID",
	Categorical: []string{"SEX", "EDUCATION", "MARRIAGE"},
}

// FeatureNames are the 23 explanatory columns in source order.
var FeatureNames = []string{
	"LIMIT_BAL", "SEX", "EDUCATION", "MARRIAGE", "AGE",
	"PAY_0", "PAY_2", "PAY_3", "PAY_4", "PAY_5", "PAY_6",
	"BILL_AMT1", "BILL_AMT2", "BILL_AMT3", "BILL_AMT4", "BILL_AMT5", "BILL_AMT6",
	"PAY_AMT1", "PAY_AMT2", "PAY_AMT3", "PAY_AMT4", "PAY_AMT5", "PAY_AMT6",
}
