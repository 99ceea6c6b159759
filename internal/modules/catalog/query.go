package catalog

import "strings"

// SectionSize is how many products a home page section shows.
const SectionSize = 4

// Search filters by a case-insensitive substring of name or description and by
// category. An empty category or AllCategories matches everything.
func Search(products []Product, q, category string) []Product {
	q = strings.ToLower(strings.TrimSpace(q))
	category = strings.TrimSpace(category)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Find returns the product with id.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Related recommends up to n products: same category first, then others.
func Related(products []Product, id string, n int) []Product {
	target, ok := Find(products, id)
	if !ok {
		return []Product{}
	}
	out := make([]Product, 0, n)
	for _, p := range products {
		if len(out) == n {
			return out
		}
		if p.ID != id && p.Category == target.Category {
			out = append(out, p)
		}
	}
	for _, p := range products {
		if len(out) == n {
			break
		}
		if p.ID != id && p.Category != target.Category {
			out = append(out, p)
		}
	}
	return out
}

// CategorySection is one category block on the home page.
type CategorySection struct {
	Category string    `json:"category"`
	Products []Product `json:"products"`
}

// HomeSections groups the catalog for the landing page.
type HomeSections struct {
	Featured    []Product         `json:"featured"`
	BestSelling []Product         `json:"bestSelling"`
	NewArrivals []Product         `json:"newArrivals"`
	Categories  []CategorySection `json:"categories"`
}

// Sections builds the landing page blocks. Categories without products are omitted.
func Sections(products []Product, categories []string) HomeSections {
	h := HomeSections{
		Featured:    firstN(products, func(p Product) bool { return p.IsFeatured }),
		BestSelling: firstN(products, func(p Product) bool { return p.IsBestSelling }),
		NewArrivals: firstN(products, func(p Product) bool { return p.IsNew }),
		Categories:  []CategorySection{},
	}
	for _, c := range categories {
		cat := c
		list := firstN(products, func(p Product) bool { return p.Category == cat })
		if len(list) == 0 {
			continue
		}
		h.Categories = append(h.Categories, CategorySection{Category: cat, Products: list})
	}
	return h
}

func firstN(products []Product, keep func(Product) bool) []Product {
	out := []Product{}
	for _, p := range products {
		if len(out) == SectionSize {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
