package entity

// Franchise groups related content in an explicit order.
type Franchise struct {
	Base
	Name string `db:"name"`
}

type Genre struct {
	Base
	Name string `db:"name"`
}

// Collection is a curated grouping such as "New Releases".
type Collection struct {
	Base
	Name string `db:"name"`
}
