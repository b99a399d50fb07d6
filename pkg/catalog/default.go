package catalog

import "github.com/matst80/slask-shelf/pkg/types"

var sampleProducts = []types.CatalogItem{
	{Id: "1", Name: "Laptop", Price: 999, Category: "Electronics", Image: "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=100&h=100&fit=crop"},
	{Id: "2", Name: "Headphones", Price: 199, Category: "Electronics", Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=100&h=100&fit=crop"},
	{Id: "3", Name: "Book", Price: 29, Category: "Education", Image: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=100&h=100&fit=crop"},
	{Id: "4", Name: "Coffee Mug", Price: 15, Category: "Lifestyle", Image: "https://images.unsplash.com/photo-1514228742587-6b1558fcff93?w=100&h=100&fit=crop"},
	{Id: "101", Name: "Premium Laptop", Price: 1299, Category: "Electronics", Image: "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=100&h=100&fit=crop"},
	{Id: "102", Name: "Wireless Mouse", Price: 49, Category: "Electronics", Image: "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=100&h=100&fit=crop"},
	{Id: "103", Name: "Design Book", Price: 35, Category: "Education", Image: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=100&h=100&fit=crop"},
	{Id: "104", Name: "Smart Watch", Price: 299, Category: "Electronics", Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=100&h=100&fit=crop"},
}

// Default returns the built-in sample products.
func Default() *Catalog {
	c, err := New(sampleProducts...)
	if err != nil {
		panic(err)
	}
	return c
}
