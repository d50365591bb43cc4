package huniyaml_test

import (
	"fmt"

	huniyaml "github.com/Gerilya-By-BSI/huniya-ml"
)

func ExampleRankSimilar() {
	snapshot := []huniyaml.Listing{
		{Index: 1, Location: "Depok", Price: 1.2e9, RoomCount: 3, BathroomCount: 2, LandArea: 120, BuildingArea: 90},
		{Index: 2, Location: "Depok", Price: 1.2e9, RoomCount: 3, BathroomCount: 2, LandArea: 120, BuildingArea: 90},
		{Index: 3, Location: "Depok", Price: 4.5e9, RoomCount: 6, BathroomCount: 4, LandArea: 400, BuildingArea: 320},
		{Index: 4, Location: "Bogor", Price: 1.2e9, RoomCount: 3, BathroomCount: 2, LandArea: 120, BuildingArea: 90},
	}

	ids, err := huniyaml.RankSimilar(snapshot, 1, 5)
	if err != nil {
		panic(err)
	}
	fmt.Println(ids)

	ids, _ = huniyaml.RankSimilar(snapshot, 99, 5)
	fmt.Println(len(ids))
	// Output:
	// [2 3]
	// 0
}
