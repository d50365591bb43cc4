package core

// ComparisonFeatures 是房源相似度计算使用的数值特征，顺序即向量维度顺序。
var ComparisonFeatures = []string{
	"price",
	"room_count",
	"bathroom_count",
	"parking_count",
	"land_area",
	"building_area",
}

// Listing 是一条房源记录。
//
// ID 是存储内部主键；Index 是对外稳定的房源标识，相似度查询与结果都使用 Index。
// Location 是硬分区键：不同 Location 的房源之间不做比较。
type Listing struct {
	ID            int64   `json:"id"`
	Index         int64   `json:"index"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Location      string  `json:"location"`
	RoomCount     float64 `json:"room_count"`
	BathroomCount float64 `json:"bathroom_count"`
	ParkingCount  float64 `json:"parking_count"`
	LandArea      float64 `json:"land_area"`
	BuildingArea  float64 `json:"building_area"`
	ImageURL      string  `json:"image_url"`
	IsSold        bool    `json:"is_sold"`
}

// Vector 按 ComparisonFeatures 的顺序返回数值特征。
func (l *Listing) Vector() []float64 {
	return []float64{
		l.Price,
		l.RoomCount,
		l.BathroomCount,
		l.ParkingCount,
		l.LandArea,
		l.BuildingArea,
	}
}

// Features 以 map 形式返回数值特征，供 Item 与 DSL 使用。
func (l *Listing) Features() map[string]float64 {
	vec := l.Vector()
	out := make(map[string]float64, len(vec))
	for i, name := range ComparisonFeatures {
		out[name] = vec[i]
	}
	return out
}

// FindListing 按 Index 在快照中查找房源；不存在时返回 (nil, false)。
func FindListing(snapshot []Listing, index int64) (*Listing, bool) {
	for i := range snapshot {
		if snapshot[i].Index == index {
			return &snapshot[i], true
		}
	}
	return nil, false
}
