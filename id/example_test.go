package id_test

import (
	"fmt"

	"github.com/termgraph/termid/id"
)

// ExampleDerive shows that the same name always yields the same UUID.
func ExampleDerive() {
	u := id.Derive("English Language")
	fmt.Println(u)
	fmt.Println("version:", u.Version())
	fmt.Println("stable:", u == id.Derive("English Language"))

	// Output:
	// 4f8fe181-9a0f-564c-aa28-afc6458ef808
	// version: VERSION_5
	// stable: true
}
