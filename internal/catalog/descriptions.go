package catalog

// defaultDescription is used for services the lookup table doesn't know.
const defaultDescription = "Профессиональная косметологическая процедура для красоты и здоровья вашей кожи."

// serviceDescriptions maps service names to marketing descriptions shown in
// the booking widget when the API entry has none.
var serviceDescriptions = map[string]string{
	"Атравматическая чистка лица":   "Деликатная процедура глубокого очищения без механического воздействия. Использует энзимные и кислотные пилинги. Идеально для чувствительной, куперозной кожи и при акне.",
	"Лифтинг-омоложение лица":       "Интенсивная антивозрастная процедура с пептидными комплексами. Стимулирует выработку коллагена и эластина, подтягивает овал лица, разглаживает морщины.",
	"Липосомальное обновление кожи": "Инновационная доставка активных веществ в глубокие слои кожи с помощью липосом. Интенсивное увлажнение, питание и регенерация клеток.",
	"Ферментотерапия лица":          "Мягкий энзимный пилинг на основе натуральных ферментов папайи и ананаса. Деликатно растворяет ороговевшие клетки, очищает поры, выравнивает тон кожи.",
	"Безынъекционный ботокс лица":   "Процедура с аргирелином и пептидным комплексом. Расслабляет мимические мышцы, разглаживает морщины лба и межбровья. Безопасная альтернатива инъекциям.",
	"Атравматическая чистка спины":  "Профессиональное очищение кожи спины от высыпаний и воспалений. Включает распаривание, энзимный пилинг, бережную экстракцию, успокаивающую маску.",
	"Лифтинг шеи и декольте":        "Специальный уход за деликатной зоной шеи и декольте. Устраняет дряблость, пигментацию, мелкие морщины. Коллагеновые маски и моделирующий массаж.",
	"Обновление лица и декольте":    "Комплексная anti-age программа для лица и зоны декольте. Пилинг, сыворотки с гиалуроновой кислотой, коллагеновая маска и массаж.",
	"Ботокс лица и шеи":             "Расширенная безынъекционная процедура ботокс-эффекта для лица и шеи. Пептидные комплексы расслабляют мимику, лифтинг-маска подтягивает контуры.",
}

// fallbackServices is served when the salon API is unreachable so the widget
// can still render step 1.
func fallbackServices() []Service {
	return []Service{
		{ID: 1, Name: "Атравматическая чистка лица", Price: 2500, DurationMinutes: 60, Category: "Лицо"},
		{ID: 2, Name: "Лифтинг-омоложение лица", Price: 2800, DurationMinutes: 90, Category: "Лицо"},
		{ID: 3, Name: "Липосомальное обновление кожи", Price: 2800, DurationMinutes: 90, Category: "Лицо"},
		{ID: 4, Name: "Ферментотерапия лица", Price: 2800, DurationMinutes: 75, Category: "Лицо"},
		{ID: 5, Name: "Безынъекционный ботокс лица", Price: 2800, DurationMinutes: 90, Category: "Лицо"},
		{ID: 6, Name: "Атравматическая чистка спины", Price: 4500, DurationMinutes: 90, Category: "Комплекс"},
		{ID: 7, Name: "Лифтинг шеи и декольте", Price: 3500, DurationMinutes: 75, Category: "Комплекс"},
		{ID: 8, Name: "Обновление лица и декольте", Price: 3500, DurationMinutes: 120, Category: "Комплекс"},
		{ID: 9, Name: "Ботокс лица и шеи", Price: 3800, DurationMinutes: 105, Category: "Комплекс"},
	}
}
