package constants_test

import (
	"fmt"
	"math"

	"github.com/agentstation/skumerge/pkg/constants"
)

// Example demonstrates converting a gram weight with the shared factor.
func Example() {
	grams := 500.0
	pounds := math.Round(grams/constants.GramsPerPound*100) / 100
	fmt.Printf("%.2f\n", pounds)
	// Output: 1.10
}

// Example_filename demonstrates the generated import file name layout.
func Example_filename() {
	fmt.Println(constants.OutputFilePrefix + "1700000000000" + constants.OutputFileExt)
	// Output: odoo_products_merged_1700000000000.csv
}
