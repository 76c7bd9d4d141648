package filter

import "github.com/nikhilbhutani/tubefilter/internal/models"

// categoryOrder is the canonical display order of the lexicon.
var categoryOrder = []models.CategoryID{
	models.CategoryEducation,
	models.CategoryIslamic,
	models.CategoryQuran,
	models.CategoryProgramming,
	models.CategoryScience,
	models.CategoryDocumentary,
	models.CategoryKids,
	models.CategoryLanguage,
	models.CategoryHistory,
	models.CategoryHealth,
	models.CategoryMathematics,
	models.CategoryBusiness,
	models.CategoryCooking,
	models.CategoryCrafts,
	models.CategoryNature,
}

// categoryKeywords maps each category to lowercase substrings that mark content as
// belonging to it. Terms are Arabic plus English or transliterated forms.
var categoryKeywords = map[models.CategoryID][]string{
	models.CategoryEducation: {
		"تعليم", "درس", "شرح", "كورس", "course", "tutorial", "learn", "education", "lecture",
		"محاضرة", "مدرسة", "جامعة", "university", "school", "تعلم", "دورة", "training", "workshop", "ورشة",
	},
	models.CategoryIslamic: {
		"إسلام", "إسلامي", "دين", "خطبة", "islamic", "islam", "sheikh", "شيخ", "مسلم", "محاضرة دينية",
		"وعظ", "داعية", "مسجد", "صلاة", "رمضان", "حديث", "سنة", "فقه", "عقيدة", "سيرة",
	},
	models.CategoryQuran: {
		"قرآن", "quran", "تلاوة", "تجويد", "حفظ", "recitation", "tajweed", "سورة", "مصحف",
		"القرآن الكريم", "قارئ", "ترتيل", "تفسير", "آية",
	},
	models.CategoryProgramming: {
		"برمجة", "programming", "code", "كود", "javascript", "python", "react", "developer", "مطور",
		"web development", "software", "برامج", "java", "css", "html", "nodejs", "api", "database",
		"frontend", "backend", "fullstack", "تطوير", "app",
	},
	models.CategoryScience: {
		"علم", "علوم", "science", "فيزياء", "كيمياء", "physics", "chemistry", "biology", "أحياء", "فضاء",
		"space", "تقنية", "tech", "technology", "research", "بحث", "تجربة", "experiment", "ناسا", "nasa",
	},
	models.CategoryDocumentary: {
		"وثائقي", "documentary", "فيلم وثائقي", "documentaire", "الجزيرة الوثائقية",
		"ناشيونال جيوغرافيك", "national geographic", "bbc", "discovery",
	},
	models.CategoryKids: {
		"أطفال", "kids", "children", "تعليمي للأطفال", "nursery", "أناشيد", "كرتون", "cartoon", "طفل",
		"روضة", "حضانة", "قصص أطفال", "تلوين", "ألعاب تعليمية",
	},
	models.CategoryLanguage: {
		"لغة", "language", "english", "arabic", "عربي", "إنجليزي", "grammar", "vocabulary", "تعلم اللغة",
		"فرنسي", "french", "spanish", "german", "ألماني", "إسباني", "قواعد", "نطق", "pronunciation",
		"ielts", "toefl",
	},
	models.CategoryHistory: {
		"تاريخ", "history", "historical", "حضارة", "civilization", "ancient", "تاريخي", "معارك", "ملوك",
		"إمبراطورية", "empire", "عصور", "آثار", "archaeology",
	},
	models.CategoryHealth: {
		"صحة", "health", "طب", "medical", "fitness", "رياضة", "تغذية", "nutrition", "تمارين", "علاج",
		"doctor", "دكتور", "مرض", "وقاية", "gym", "يوغا", "yoga", "wellness",
	},
	models.CategoryMathematics: {
		"رياضيات", "mathematics", "math", "حساب", "جبر", "algebra", "هندسة", "geometry", "calculus",
		"تفاضل", "تكامل", "إحصاء", "statistics", "أرقام",
	},
	models.CategoryBusiness: {
		"أعمال", "business", "ريادة", "entrepreneurship", "تسويق", "marketing", "إدارة", "management",
		"استثمار", "investment", "مال", "finance", "شركة", "startup", "تجارة", "اقتصاد", "economy",
	},
	models.CategoryCooking: {
		"طبخ", "cooking", "طهي", "وصفة", "recipe", "مطبخ", "kitchen", "أكل", "food", "حلويات",
		"dessert", "شيف", "chef", "مأكولات",
	},
	models.CategoryCrafts: {
		"حرف", "crafts", "يدوية", "handmade", "diy", "صناعة", "فن", "art", "رسم", "drawing", "تصميم",
		"design", "خياطة", "sewing", "كروشيه", "crochet",
	},
	models.CategoryNature: {
		"طبيعة", "nature", "حيوانات", "animals", "بيئة", "environment", "نباتات", "plants", "بحار",
		"ocean", "غابات", "forest", "wildlife", "حياة برية",
	},
}

var categoryLabels = map[models.CategoryID]string{
	models.CategoryEducation:   "تعليم",
	models.CategoryIslamic:     "إسلامي",
	models.CategoryQuran:       "قرآن",
	models.CategoryProgramming: "برمجة",
	models.CategoryScience:     "علوم",
	models.CategoryDocumentary: "وثائقي",
	models.CategoryKids:        "أطفال",
	models.CategoryLanguage:    "لغات",
	models.CategoryHistory:     "تاريخ",
	models.CategoryHealth:      "صحة",
	models.CategoryMathematics: "رياضيات",
	models.CategoryBusiness:    "أعمال",
	models.CategoryCooking:     "طبخ",
	models.CategoryCrafts:      "حرف يدوية",
	models.CategoryNature:      "طبيعة",
}

// AllCategories returns every known category in canonical order.
func AllCategories() []models.CategoryID {
	return append([]models.CategoryID(nil), categoryOrder...)
}

func ValidCategory(id models.CategoryID) bool {
	_, ok := categoryKeywords[id]
	return ok
}

// Keywords returns the lexicon entries for id, or nil for an unknown category.
func Keywords(id models.CategoryID) []string {
	return categoryKeywords[id]
}

// Label returns the display label for id, falling back to the id itself.
func Label(id models.CategoryID) string {
	if l, ok := categoryLabels[id]; ok {
		return l
	}
	return string(id)
}
