package models

// ParentCategory groups expense categories one level up.
type ParentCategory string

const (
	ParentCategoryDesign         ParentCategory = "design"
	ParentCategoryHardDecoration ParentCategory = "hard_decoration"
	ParentCategoryMainMaterials  ParentCategory = "main_materials"
	ParentCategorySoftDecoration ParentCategory = "soft_decoration"
	ParentCategoryOther          ParentCategory = "other"
)

// ExpenseCategory is the closed set of categories an expense can be filed under.
type ExpenseCategory string

const (
	CategoryDesign       ExpenseCategory = "design"
	CategoryDemolition   ExpenseCategory = "demolition"
	CategoryPlumbing     ExpenseCategory = "plumbing"
	CategoryElectrical   ExpenseCategory = "electrical"
	CategoryMasonry      ExpenseCategory = "masonry"
	CategoryCarpentry    ExpenseCategory = "carpentry"
	CategoryPainting     ExpenseCategory = "painting"
	CategoryTiles        ExpenseCategory = "tiles"
	CategoryFlooring     ExpenseCategory = "flooring"
	CategoryCabinets     ExpenseCategory = "cabinets"
	CategoryDoorsWindows ExpenseCategory = "doors_windows"
	CategorySanitaryWare ExpenseCategory = "sanitary_ware"
	CategoryFurniture    ExpenseCategory = "furniture"
	CategoryAppliances   ExpenseCategory = "appliances"
	CategoryDecor        ExpenseCategory = "decor"
	CategoryOther        ExpenseCategory = "other"
)

type categoryInfo struct {
	displayName string
	icon        string
	parent      ParentCategory
}

type parentInfo struct {
	displayName string
	icon        string
}

// expenseCategories is ordered; its index is the display order. Adding a
// category means adding a row here, nothing else.
var expenseCategories = []struct {
	category ExpenseCategory
	info     categoryInfo
}{
	{CategoryDesign, categoryInfo{"Design", "pencil.and.ruler", ParentCategoryDesign}},
	{CategoryDemolition, categoryInfo{"Demolition", "hammer", ParentCategoryHardDecoration}},
	{CategoryPlumbing, categoryInfo{"Plumbing", "drop", ParentCategoryHardDecoration}},
	{CategoryElectrical, categoryInfo{"Electrical", "bolt", ParentCategoryHardDecoration}},
	{CategoryMasonry, categoryInfo{"Masonry & Tiling Labor", "square.grid.3x3", ParentCategoryHardDecoration}},
	{CategoryCarpentry, categoryInfo{"Carpentry", "ruler", ParentCategoryHardDecoration}},
	{CategoryPainting, categoryInfo{"Painting", "paintbrush", ParentCategoryHardDecoration}},
	{CategoryTiles, categoryInfo{"Tiles", "square.grid.2x2", ParentCategoryMainMaterials}},
	{CategoryFlooring, categoryInfo{"Flooring", "rectangle.split.3x1", ParentCategoryMainMaterials}},
	{CategoryCabinets, categoryInfo{"Cabinets", "cabinet", ParentCategoryMainMaterials}},
	{CategoryDoorsWindows, categoryInfo{"Doors & Windows", "door.left.hand.open", ParentCategoryMainMaterials}},
	{CategorySanitaryWare, categoryInfo{"Sanitary Ware", "shower", ParentCategoryMainMaterials}},
	{CategoryFurniture, categoryInfo{"Furniture", "sofa", ParentCategorySoftDecoration}},
	{CategoryAppliances, categoryInfo{"Appliances", "refrigerator", ParentCategorySoftDecoration}},
	{CategoryDecor, categoryInfo{"Decor", "lamp.table", ParentCategorySoftDecoration}},
	{CategoryOther, categoryInfo{"Other", "ellipsis.circle", ParentCategoryOther}},
}

var parentCategories = []struct {
	parent ParentCategory
	info   parentInfo
}{
	{ParentCategoryDesign, parentInfo{"Design", "pencil.and.ruler"}},
	{ParentCategoryHardDecoration, parentInfo{"Hard Decoration", "hammer"}},
	{ParentCategoryMainMaterials, parentInfo{"Main Materials", "shippingbox"}},
	{ParentCategorySoftDecoration, parentInfo{"Soft Decoration", "sofa"}},
	{ParentCategoryOther, parentInfo{"Other", "ellipsis.circle"}},
}

var (
	categoryIndex = make(map[ExpenseCategory]int, len(expenseCategories))
	parentIndex   = make(map[ParentCategory]int, len(parentCategories))
)

func init() {
	for i, row := range expenseCategories {
		categoryIndex[row.category] = i
	}
	for i, row := range parentCategories {
		parentIndex[row.parent] = i
	}
}

// AllExpenseCategories returns every category in display order.
func AllExpenseCategories() []ExpenseCategory {
	out := make([]ExpenseCategory, len(expenseCategories))
	for i, row := range expenseCategories {
		out[i] = row.category
	}
	return out
}

// AllParentCategories returns every parent category in display order.
func AllParentCategories() []ParentCategory {
	out := make([]ParentCategory, len(parentCategories))
	for i, row := range parentCategories {
		out[i] = row.parent
	}
	return out
}

// Valid reports whether c is one of the known categories.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

func (c ExpenseCategory) info() categoryInfo {
	if i, ok := categoryIndex[c]; ok {
		return expenseCategories[i].info
	}
	return expenseCategories[categoryIndex[CategoryOther]].info
}

// Parent returns the parent category. Unknown values map to other.
func (c ExpenseCategory) Parent() ParentCategory { return c.info().parent }

// DisplayName returns the human readable name.
func (c ExpenseCategory) DisplayName() string { return c.info().displayName }

// Icon returns the symbol name used by clients.
func (c ExpenseCategory) Icon() string { return c.info().icon }

// SortOrder returns the position of c in AllExpenseCategories, or -1.
func (c ExpenseCategory) SortOrder() int {
	if i, ok := categoryIndex[c]; ok {
		return i
	}
	return -1
}

// Valid reports whether p is one of the known parent categories.
func (p ParentCategory) Valid() bool {
	_, ok := parentIndex[p]
	return ok
}

// DisplayName returns the human readable name.
func (p ParentCategory) DisplayName() string {
	if i, ok := parentIndex[p]; ok {
		return parentCategories[i].info.displayName
	}
	return string(p)
}

// Icon returns the symbol name used by clients.
func (p ParentCategory) Icon() string {
	if i, ok := parentIndex[p]; ok {
		return parentCategories[i].info.icon
	}
	return ""
}

// SortOrder returns the position of p in AllParentCategories, or -1.
func (p ParentCategory) SortOrder() int {
	if i, ok := parentIndex[p]; ok {
		return i
	}
	return -1
}

// Categories returns the child categories of p in display order.
func (p ParentCategory) Categories() []ExpenseCategory {
	var out []ExpenseCategory
	for _, row := range expenseCategories {
		if row.info.parent == p {
			out = append(out, row.category)
		}
	}
	return out
}
