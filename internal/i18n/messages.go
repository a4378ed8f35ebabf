// Package i18n holds the closed catalog of user-facing message keys and their
// Swahili and English texts. Handlers return keys, never raw sentences; the
// frontend (or the Resolve helper) picks the language. Adding a key here is the
// only way to introduce new user-facing copy.
package i18n

// Supported languages.
const (
	LangSwahili = "sw"
	LangEnglish = "en"
)

// Message holds the translations for one key
type Message struct {
	Swahili string
	English string
}

// Catalog maps every message key the API can emit to its translations
var Catalog = map[string]Message{
	// Generic
	"FETCH_SUCCESS":     {"Imepakiwa kikamilifu", "Loaded successfully"},
	"VALIDATION_FAILED": {"Taarifa ulizojaza hazijakamilika au si sahihi", "The submitted information is incomplete or invalid"},
	"NOT_FOUND":         {"Rekodi haikupatikana", "Record not found"},
	"SERVER_ERROR":      {"Hitilafu ya ndani imetokea, jaribu tena baadaye", "An internal error occurred, please try again later"},
	"RATE_LIMITED":      {"Maombi mengi mno, subiri kidogo kisha jaribu tena", "Too many requests, wait a moment and try again"},

	// Authentication
	"AUTH_REGISTER_SUCCESS": {"Usajili umekamilika, karibu", "Registration complete, welcome"},
	"AUTH_REGISTER_FAILED":  {"Usajili haukufanikiwa, barua pepe tayari inatumika", "Registration failed, the email is already in use"},
	"AUTH_LOGIN_SUCCESS":    {"Umeingia kikamilifu", "Logged in successfully"},
	"AUTH_LOGIN_FAILED":     {"Barua pepe au nenosiri si sahihi", "Incorrect email or password"},
	"AUTH_LOGIN_BLOCKED":    {"Akaunti yako imesitishwa, wasiliana na ofisi ya vijana", "Your account is deactivated, contact the youth office"},
	"AUTH_LOGOUT_SUCCESS":   {"Umetoka kikamilifu", "Logged out successfully"},
	"AUTH_UNAUTHORIZED":     {"Tafadhali ingia kwanza", "Please log in first"},
	"AUTH_FORBIDDEN":        {"Huna ruhusa ya kufanya kitendo hiki", "You do not have permission to perform this action"},
	"AUTH_RESET_EMAIL_SENT": {"Kama barua pepe ipo, maelekezo ya kubadili nenosiri yametumwa", "If the email exists, password reset instructions have been sent"},
	"AUTH_RESET_SUCCESS":    {"Nenosiri limebadilishwa, sasa unaweza kuingia", "Password changed, you can now log in"},
	"AUTH_RESET_INVALID":    {"Kiungo cha kubadili nenosiri si sahihi au kimeisha muda", "The password reset link is invalid or has expired"},

	// Categories
	"CATEGORY_CREATE_SUCCESS": {"Kundi limeongezwa", "Category created"},
	"CATEGORY_UPDATE_SUCCESS": {"Kundi limehaririwa", "Category updated"},
	"CATEGORY_DELETE_SUCCESS": {"Kundi limefutwa", "Category deleted"},
	"CATEGORY_NOT_FOUND":      {"Kundi halikupatikana", "Category not found"},
	"CATEGORY_DUPLICATE":      {"Kundi lenye jina hili tayari lipo", "A category with this name already exists"},

	// Opportunities
	"OPPORTUNITY_CREATE_SUCCESS":    {"Fursa imeongezwa", "Opportunity created"},
	"OPPORTUNITY_UPDATE_SUCCESS":    {"Fursa imehaririwa", "Opportunity updated"},
	"OPPORTUNITY_DELETE_SUCCESS":    {"Fursa imefutwa", "Opportunity deleted"},
	"OPPORTUNITY_PUBLISH_SUCCESS":   {"Fursa imechapishwa, sasa inaonekana kwa vijana", "Opportunity published, it is now visible to youth"},
	"OPPORTUNITY_UNPUBLISH_SUCCESS": {"Fursa imeondolewa kwenye uchapishaji", "Opportunity unpublished"},
	"OPPORTUNITY_NOT_FOUND":         {"Fursa haikupatikana", "Opportunity not found"},
	"OPPORTUNITY_SAVE_SUCCESS":      {"Fursa imehifadhiwa kwenye orodha yako", "Opportunity saved to your list"},
	"OPPORTUNITY_SAVE_DUPLICATE":    {"Fursa hii tayari imehifadhiwa", "This opportunity is already saved"},
	"OPPORTUNITY_UNSAVE_SUCCESS":    {"Fursa imeondolewa kwenye orodha yako", "Opportunity removed from your list"},

	// Trainings
	"TRAINING_CREATE_SUCCESS": {"Mafunzo yameongezwa", "Training created"},
	"TRAINING_UPDATE_SUCCESS": {"Mafunzo yamehaririwa", "Training updated"},
	"TRAINING_DELETE_SUCCESS": {"Mafunzo yamefutwa", "Training deleted"},
	"TRAINING_NOT_FOUND":      {"Mafunzo hayakupatikana", "Training not found"},

	// Questions
	"QUESTION_CREATE_SUCCESS": {"Swali lako limepokelewa, utajibiwa hivi karibuni", "Your question has been received, you will get an answer soon"},
	"QUESTION_CREATE_FAILED":  {"Swali halikutumwa, andika swali lako kwanza", "Question not sent, write your question first"},
	"QUESTION_ANSWER_SUCCESS": {"Jibu limetumwa", "Answer sent"},
	"QUESTION_DELETE_SUCCESS": {"Swali limefutwa", "Question deleted"},
	"QUESTION_NOT_FOUND":      {"Swali halikupatikana", "Question not found"},

	// Profile and youth accounts
	"PROFILE_UPDATE_SUCCESS": {"Wasifu wako umehaririwa", "Your profile has been updated"},
	"YOUTH_STATUS_UPDATED":   {"Hali ya akaunti imebadilishwa", "Account status updated"},
	"YOUTH_DELETE_SUCCESS":   {"Akaunti imefutwa", "Account deleted"},
	"YOUTH_NOT_FOUND":        {"Akaunti haikupatikana", "Account not found"},

	// Audit
	"AUDIT_PURGE_SUCCESS": {"Kumbukumbu za zamani zimefutwa", "Old audit records purged"},
}

// Known reports whether key exists in the catalog
func Known(key string) bool {
	_, ok := Catalog[key]
	return ok
}

// Resolve returns the text for key in the requested language, falling back to
// Swahili (the portal default), then to the key itself for unknown keys so a
// missing translation never blanks the UI.
func Resolve(key, lang string) string {
	msg, ok := Catalog[key]
	if !ok {
		return key
	}
	if lang == LangEnglish {
		return msg.English
	}
	return msg.Swahili
}
