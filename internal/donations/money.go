package donations

import (
	"github.com/leekchan/accounting"
)

// FormatRupiah renders whole IDR the Indonesian way: 75000 -> "Rp 75.000".
func FormatRupiah(amount int64) string {
	ac := accounting.Accounting{Symbol: "Rp ", Precision: 0, Thousand: ".", Decimal: ","}
	return ac.FormatMoney(amount)
}
