package models

// Category is a spending or income category value as stored on a transaction.
type Category string

const (
	CategorySalary      Category = "salary"
	CategoryFreelance   Category = "freelance"
	CategoryInvestment  Category = "investment"
	CategoryGifts       Category = "gifts"
	CategoryRefunds     Category = "refunds"
	CategoryOtherIncome Category = "other-income"

	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryRent          Category = "rent"
	CategoryHealth        Category = "health"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOtherExpense  Category = "other-expense"
)

var incomeCategories = []Category{
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryGifts,
	CategoryRefunds,
	CategoryOtherIncome,
}

var expenseCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryRent,
	CategoryHealth,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryEducation,
	CategoryTravel,
	CategoryOtherExpense,
}

// CategoriesFor lists the categories offered for a transaction type.
func CategoriesFor(t TransactionType) []Category {
	switch t {
	case TypeIncome:
		return append([]Category(nil), incomeCategories...)
	case TypeExpense:
		return append([]Category(nil), expenseCategories...)
	default:
		return nil
	}
}

// Label returns the display label for a known category.
func (c Category) Label() (string, bool) {
	switch c {
	case CategorySalary:
		return "Salary", true
	case CategoryFreelance:
		return "Freelance", true
	case CategoryInvestment:
		return "Investment Returns", true
	case CategoryGifts:
		return "Gifts", true
	case CategoryRefunds:
		return "Refunds", true
	case CategoryOtherIncome:
		return "Other Income", true
	case CategoryFood:
		return "Food & Dining", true
	case CategoryTransport:
		return "Transportation", true
	case CategoryRent:
		return "Rent", true
	case CategoryHealth:
		return "Health & Medical", true
	case CategoryShopping:
		return "Shopping", true
	case CategoryEntertainment:
		return "Entertainment", true
	case CategoryBills:
		return "Bills & Utilities", true
	case CategoryEducation:
		return "Education", true
	case CategoryTravel:
		return "Travel", true
	case CategoryOtherExpense:
		return "Other Expense", true
	default:
		return "", false
	}
}

// CategoryLabel resolves a category value within its transaction type.
// Values that are unknown, or belong to the other type, are returned unchanged.
func CategoryLabel(t TransactionType, value string) string {
	for _, c := range CategoriesFor(t) {
		if string(c) == value {
			label, _ := c.Label()
			return label
		}
	}
	return value
}

// PaymentMode is how a transaction was paid.
type PaymentMode string

const (
	PaymentCash       PaymentMode = "cash"
	PaymentCreditCard PaymentMode = "credit-card"
	PaymentDebitCard  PaymentMode = "debit-card"
	PaymentUPI        PaymentMode = "upi"
	PaymentNetBanking PaymentMode = "net-banking"
	PaymentWallet     PaymentMode = "wallet"
	PaymentOther      PaymentMode = "other"
)

// PaymentModeLabel returns the display label, or the value itself when unknown.
func PaymentModeLabel(mode string) string {
	switch PaymentMode(mode) {
	case PaymentCash:
		return "Cash"
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentDebitCard:
		return "Debit Card"
	case PaymentUPI:
		return "UPI"
	case PaymentNetBanking:
		return "Net Banking"
	case PaymentWallet:
		return "Wallet"
	case PaymentOther:
		return "Other"
	default:
		return mode
	}
}
