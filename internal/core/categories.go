package core

// OtherCategory is the fallback category name for imported rows.
const OtherCategory = "Other"

// DefaultCategories returns a fresh copy of the seed category set.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat-1", Name: "Food & Drink", Icon: "Coffee", Color: "hsl(var(--chart-1))"},
		{ID: "cat-2", Name: "Shopping", Icon: "ShoppingCart", Color: "hsl(var(--chart-2))"},
		{ID: "cat-3", Name: "Entertainment", Icon: "Film", Color: "hsl(var(--chart-3))"},
		{ID: "cat-4", Name: "Health", Icon: "HeartPulse", Color: "hsl(var(--chart-4))"},
		{ID: "cat-5", Name: "Education", Icon: "BookOpen", Color: "hsl(var(--chart-5))"},
		{ID: "cat-6", Name: "Transport", Icon: "Car", Color: "hsl(var(--chart-1))"},
		{ID: "cat-7", Name: "Housing", Icon: "Home", Color: "hsl(var(--chart-2))"},
		{ID: "cat-8", Name: "Bills", Icon: "Receipt", Color: "hsl(var(--chart-3))"},
		{ID: "cat-9", Name: "Gifts", Icon: "Gift", Color: "hsl(var(--chart-4))"},
		{ID: "cat-10", Name: "Work", Icon: "Briefcase", Color: "hsl(var(--chart-5))"},
		{ID: "cat-11", Name: "Salary", Icon: "TrendingUp", Color: "hsl(var(--chart-1))"},
		{ID: "cat-12", Name: "Travel", Icon: "Plane", Color: "hsl(var(--chart-2))"},
		{ID: "cat-13", Name: "Personal Care", Icon: "Sparkles", Color: "hsl(var(--chart-3))"},
		{ID: "cat-14", Name: "Pets", Icon: "Dog", Color: "hsl(var(--chart-4))"},
		{ID: "cat-15", Name: "Fitness", Icon: "Dumbbell", Color: "hsl(var(--chart-5))"},
		{ID: OtherCategoryID, Name: OtherCategory, Icon: "Landmark", Color: "hsl(var(--chart-2))"},
	}
}

// OtherCategoryID is the id of the seeded fallback category.
const OtherCategoryID = "cat-16"
