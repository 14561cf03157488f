package handler

// Client facing texts. Validation messages come from the domain package.
const (
	msgInvalidBody      = "Invalid request body"
	msgUnexpectedField  = "Unexpected field: %s"
	msgTooManyFiles     = "Too many files for %s. Maximum is %d"
	msgBodyTooLarge     = "Request body too large"
	msgDateRequired     = "date is required"
	msgBookingCreated   = "تم تقديم طلبك بنجاح"
	msgBookingDeleted   = "تم حذف الطلب بنجاح"
	msgBookingNotFound  = "الطلب غير موجود"
	msgRecoveryCreated  = "تم تقديم طلب استرجاع الحساب بنجاح"
	msgRecoveryStatus   = "تم تحديث حالة الطلب بنجاح"
	msgRecoveryDeleted  = "تم حذف الطلب بنجاح"
	msgRecoveryNotFound = "الطلب غير موجود"
	msgReportCreated    = "تم تقديم البلاغ بنجاح"
	msgReportDeleted    = "تم حذف البلاغ بنجاح"
	msgReportNotFound   = "البلاغ غير موجود"
	msgFeedbackCreated  = "تم تقديم الملاحظات بنجاح"
	msgFeedbackUpdated  = "تم تحديث الملاحظات بنجاح"
	msgFeedbackDeleted  = "تم حذف الملاحظات بنجاح"
	msgFeedbackNotFound = "الملاحظات غير موجودة"
	msgBlogCreated      = "تم إنشاء التدوينة بنجاح"
	msgBlogUpdated      = "تم تحديث التدوينة بنجاح"
	msgBlogDeleted      = "تم حذف التدوينة بنجاح"
	msgBlogNotFound     = "التدوينة غير موجودة"
	msgLoggedIn         = "تم تسجيل الدخول بنجاح"
	msgLoggedOut        = "تم تسجيل الخروج بنجاح"
	msgProfileUpdated   = "تم تحديث الملف الشخصي بنجاح"
	msgMediaDeleted     = "تم حذف الملف بنجاح"
)
