package domain

// Option is one entry of an ordered code to label table.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type Options []Option

func (o Options) Label(code string) (string, bool) {
	for _, opt := range o {
		if opt.Code == code {
			return opt.Label, true
		}
	}
	return "", false
}

func (o Options) Map() map[string]string {
	out := make(map[string]string, len(o))
	for _, opt := range o {
		out[opt.Code] = opt.Label
	}
	return out
}

var BookingPlatforms = Options{
	{"instagram", "انستغرام"},
	{"facebook", "فيسبوك"},
	{"twitter", "تويتر"},
	{"tiktok", "تيك توك"},
	{"snapchat", "سناب شات"},
	{"whatsapp", "واتساب"},
}

var ServiceTypes = Options{
	{"APP_DESIGN", "تصميم تطبيقات"},
	{"WEBSITE_DESIGN", "تصميم موقع"},
	{"ACCOUNT_REPORT", "الإبلاغ عن حساب"},
	{"ACCOUNT_RECOVERY", "استرجاع الحساب"},
	{"ACCOUNT_VERIFICATION", "توثيق الحساب"},
	{"PAID_ADS", "إعلانات ممولة"},
	{"BUY_ACCOUNTS", "شراء حسابات"},
	{"WHATSAPP_CAMPAIGNS", "حملات واتساب"},
	{"HASHTAG_BOOST", "رفع هاشتاقات"},
	{"SOCIAL_MANAGEMENT", "إدارة حسابات التواصل"},
}

// AppointmentTimes lists the bookable slots in display order.
var AppointmentTimes = []string{
	"9:00 ص", "9:30 ص", "10:00 ص", "10:30 ص", "11:00 ص", "11:30 ص",
	"12:00 م", "12:30 م", "1:00 م", "2:00 م",
	"5:00 م", "5:30 م", "6:00 م", "6:30 م", "7:00 م", "7:30 م",
	"8:00 م", "8:30 م", "9:00 م",
}

var RecoveryPlatforms = []string{"Twitter", "Snapchat", "TikTok", "Facebook", "Instagram"}

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

var RecoveryStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusRejected}

var ReportPlatforms = []string{"facebook", "instagram", "twitter", "tiktok", "snapchat"}

var Occupations = []string{"business", "employee", "student", "other"}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
