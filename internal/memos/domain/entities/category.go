package entities

// Category - значение из закрытого перечисления категорий.
type Category string

// Известные категории.
const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryIdea     Category = "idea"
	CategoryOther    Category = "other"
)

// DefaultCategory используется, когда категория не указана.
const DefaultCategory = CategoryPersonal

// CategoryAll - значение фильтра без ограничения по категории.
const CategoryAll = "all"

var categoryLabels = map[Category]string{
	CategoryPersonal: "Personal",
	CategoryWork:     "Work",
	CategoryStudy:    "Study",
	CategoryIdea:     "Idea",
	CategoryOther:    "Other",
}

// Categories возвращает категории в порядке отображения.
func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryStudy, CategoryIdea, CategoryOther}
}

// IsKnownCategory сообщает, входит ли значение в перечисление.
func IsKnownCategory(category string) bool {
	_, ok := categoryLabels[Category(category)]
	return ok
}

// CategoryLabel возвращает имя категории для отображения.
// Для неизвестных значений возвращается имя категории other.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[Category(category)]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}
