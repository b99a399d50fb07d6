package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/matst80/slask-shelf/pkg/stats"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
)

type storeTestContext struct {
	store *store.Store
}

func (c *storeTestContext) reset() {
	c.store = store.NewStore()
}

func catalogItem(id int, name, category string, price float64) types.CatalogItem {
	return types.CatalogItem{Id: types.ItemId(fmt.Sprint(id)), Name: name, Category: category, Price: price}
}

func (c *storeTestContext) anEmptyStore() error {
	c.reset()
	return nil
}

func (c *storeTestContext) iAddItemToFavorites(id int, name, category string, price float64) error {
	c.store.AddToFavorites(catalogItem(id, name, category, price))
	return nil
}

func (c *storeTestContext) iAddItemToTheCart(id int, name, category string, price float64) error {
	c.store.AddToCart(catalogItem(id, name, category, price))
	return nil
}

func (c *storeTestContext) iSetTheQuantity(id, quantity int) error {
	c.store.UpdateCartQuantity(types.ItemId(fmt.Sprint(id)), quantity)
	return nil
}

func (c *storeTestContext) iRemoveFavorite(id int) error {
	c.store.RemoveFromFavorites(types.ItemId(fmt.Sprint(id)))
	return nil
}

func (c *storeTestContext) iToggleTheTheme() error {
	c.store.ToggleTheme()
	return nil
}

func (c *storeTestContext) theCartHoldsASingleItemPriced(price float64) error {
	c.store.AddToCart(catalogItem(1, "Priced", "Misc", price))
	return nil
}

func (c *storeTestContext) favoritesHoldItems(n int) error {
	for i := 0; i < n; i++ {
		c.store.AddToFavorites(catalogItem(1000+i, "Fav", "Misc", 1))
	}
	return nil
}

func (c *storeTestContext) favoritesContain(n int) error {
	if got := c.store.Snapshot().FavoritesLen(); got != n {
		return fmt.Errorf("expected %d favorites, got %d", n, got)
	}
	return nil
}

func (c *storeTestContext) theStoreVersionIs(v int) error {
	if got := c.store.Snapshot().Version(); got != uint64(v) {
		return fmt.Errorf("expected version %d, got %d", v, got)
	}
	return nil
}

func (c *storeTestContext) theCartHasEntries(n int) error {
	if got := c.store.Snapshot().CartLen(); got != n {
		return fmt.Errorf("expected %d cart entries, got %d", n, got)
	}
	return nil
}

func (c *storeTestContext) itemHasQuantity(id, quantity int) error {
	entry, ok := c.store.Snapshot().CartEntry(types.ItemId(fmt.Sprint(id)))
	if !ok {
		return fmt.Errorf("item %d not in cart", id)
	}
	if entry.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, entry.Quantity)
	}
	return nil
}

func (c *storeTestContext) itemIsNotInTheCart(id int) error {
	if _, ok := c.store.Snapshot().CartEntry(types.ItemId(fmt.Sprint(id))); ok {
		return fmt.Errorf("item %d should not be in the cart", id)
	}
	return nil
}

func (c *storeTestContext) theCartTotalValueIs(v float64) error {
	if got := stats.CartTotals(c.store.Snapshot()).TotalValue; got != v {
		return fmt.Errorf("expected total value %v, got %v", v, got)
	}
	return nil
}

func (c *storeTestContext) theCartHoldsItems(n int) error {
	if got := stats.CartTotals(c.store.Snapshot()).TotalItems; got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (c *storeTestContext) theAveragePriceIs(v float64) error {
	if got := stats.CartTotals(c.store.Snapshot()).AveragePrice; got != v {
		return fmt.Errorf("expected average price %v, got %v", v, got)
	}
	return nil
}

func (c *storeTestContext) theThemeIs(name string) error {
	if got := c.store.Snapshot().Theme().String(); got != name {
		return fmt.Errorf("expected theme %s, got %s", name, got)
	}
	return nil
}

func (c *storeTestContext) theBreakdownSumsToTheFavoriteCount() error {
	fs := stats.FavoritesBreakdown(c.store.Snapshot())
	sum := 0
	for _, n := range fs.CategoryBreakdown {
		sum += n
	}
	if sum != fs.TotalFavorites {
		return fmt.Errorf("breakdown sums to %d, expected %d", sum, fs.TotalFavorites)
	}
	return nil
}

func (c *storeTestContext) theTopCategoryIs(name string) error {
	if got := stats.FavoritesBreakdown(c.store.Snapshot()).TopCategory; got != name {
		return fmt.Errorf("expected top category %s, got %s", name, got)
	}
	return nil
}

func (c *storeTestContext) thePerformanceScoreIs(score int) error {
	s := c.store.Snapshot()
	got := stats.PerformanceScore(stats.CartTotals(s).TotalValue, s.FavoritesLen())
	if got != score {
		return fmt.Errorf("expected performance score %d, got %d", score, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storeTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty store$`, tc.anEmptyStore)
	ctx.Step(`^I add item (\d+) "([^"]*)" in "([^"]*)" priced (\d+(?:\.\d+)?) to favorites$`, tc.iAddItemToFavorites)
	ctx.Step(`^I add item (\d+) "([^"]*)" in "([^"]*)" priced (\d+(?:\.\d+)?) to the cart$`, tc.iAddItemToTheCart)
	ctx.Step(`^item (\d+) "([^"]*)" in "([^"]*)" priced (\d+(?:\.\d+)?) is in the cart$`, tc.iAddItemToTheCart)
	ctx.Step(`^I set the quantity of item (\d+) to (-?\d+)$`, tc.iSetTheQuantity)
	ctx.Step(`^I remove item (\d+) from favorites$`, tc.iRemoveFavorite)
	ctx.Step(`^I toggle the theme$`, tc.iToggleTheTheme)
	ctx.Step(`^the cart holds a single item priced (\d+(?:\.\d+)?)$`, tc.theCartHoldsASingleItemPriced)
	ctx.Step(`^favorites hold (\d+) items$`, tc.favoritesHoldItems)

	ctx.Step(`^favorites contain (\d+) items?$`, tc.favoritesContain)
	ctx.Step(`^the store version is (\d+)$`, tc.theStoreVersionIs)
	ctx.Step(`^the cart has (\d+) entr(?:y|ies)$`, tc.theCartHasEntries)
	ctx.Step(`^item (\d+) has quantity (\d+) in the cart$`, tc.itemHasQuantity)
	ctx.Step(`^item (\d+) is not in the cart$`, tc.itemIsNotInTheCart)
	ctx.Step(`^the cart total value is (\d+(?:\.\d+)?)$`, tc.theCartTotalValueIs)
	ctx.Step(`^the cart holds (\d+) items$`, tc.theCartHoldsItems)
	ctx.Step(`^the average price is (\d+(?:\.\d+)?)$`, tc.theAveragePriceIs)
	ctx.Step(`^the theme is "([^"]*)"$`, tc.theThemeIs)
	ctx.Step(`^the category breakdown sums to the favorite count$`, tc.theBreakdownSumsToTheFavoriteCount)
	ctx.Step(`^the top category is "([^"]*)"$`, tc.theTopCategoryIs)
	ctx.Step(`^the performance score is (\d+)$`, tc.thePerformanceScoreIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/store.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
