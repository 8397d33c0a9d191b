package seed

import "github.com/bioseed/seedalign/penalty"

func testPenalties() *penalty.Penalties {
	return penalty.Uniform(6, 1, 5, 3)
}
