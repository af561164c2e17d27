package settlement

import "github.com/shopspring/decimal"

// Split divides a captured total between the farmer and the platform. The
// farmer share is rounded to two decimal places and the platform keeps the
// remainder, so the two always sum exactly to total.
func Split(total, farmerShareRate decimal.Decimal) (farmerShare, platformProfit decimal.Decimal) {
	farmerShare = total.Mul(farmerShareRate).Round(2)
	platformProfit = total.Sub(farmerShare)
	return farmerShare, platformProfit
}
