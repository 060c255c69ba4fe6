package views

var messages = map[string]map[string]string{
	"en": {
		"nav.home":          "Lessons",
		"nav.profile":       "Profile",
		"nav.admin":         "Admin",
		"nav.logout":        "Log out",
		"nav.login":         "Log in",
		"home.title":        "Your lessons",
		"home.empty":        "No lessons match your filter.",
		"home.search":       "Search lessons",
		"lesson.vocabulary": "Vocabulary",
		"lesson.video":      "Watch video",
		"lesson.games":      "Play games",
		"lesson.progress":   "Progress",
		"games.title":       "Choose a game",
		"games.empty":       "This lesson has no games yet.",
		"quiz.loading":      "Loading questions...",
		"quiz.next":         "Next",
		"quiz.finish":       "See results",
		"quiz.correct":      "Correct!",
		"quiz.incorrect":    "Not quite.",
		"quiz.retry":        "Try again",
		"quiz.reshuffle":    "Reshuffle",
		"quiz.submit":       "Check",
		"quiz.restart":      "Play again",
		"quiz.exit":         "Back to lesson",
		"quiz.score":        "Score",
		"quiz.accuracy":     "Accuracy",
		"quiz.answer":       "Correct sentence",
		"checkin.title":     "Daily check-in",
		"checkin.body":      "Check in today to keep your streak going.",
		"checkin.confirm":   "Check in",
		"checkin.skip":      "Not today",
		"profile.title":     "Your profile",
		"profile.streak":    "Day streak",
		"profile.save":      "Save profile",
		"profile.password":  "Change password",
		"footer.tagline":    "Learn a little every day.",
	},
	"vi": {
		"nav.home":          "Bài học",
		"nav.profile":       "Hồ sơ",
		"nav.admin":         "Quản trị",
		"nav.logout":        "Đăng xuất",
		"nav.login":         "Đăng nhập",
		"home.title":        "Bài học của bạn",
		"home.empty":        "Không có bài học phù hợp.",
		"home.search":       "Tìm bài học",
		"lesson.vocabulary": "Từ vựng",
		"lesson.video":      "Xem video",
		"lesson.games":      "Chơi trò chơi",
		"lesson.progress":   "Tiến độ",
		"games.title":       "Chọn trò chơi",
		"games.empty":       "Bài học này chưa có trò chơi.",
		"quiz.loading":      "Đang tải câu hỏi...",
		"quiz.next":         "Tiếp",
		"quiz.finish":       "Xem kết quả",
		"quiz.correct":      "Chính xác!",
		"quiz.incorrect":    "Chưa đúng.",
		"quiz.retry":        "Thử lại",
		"quiz.reshuffle":    "Xáo lại",
		"quiz.submit":       "Kiểm tra",
		"quiz.restart":      "Chơi lại",
		"quiz.exit":         "Về bài học",
		"quiz.score":        "Điểm",
		"quiz.accuracy":     "Độ chính xác",
		"quiz.answer":       "Câu đúng",
		"checkin.title":     "Điểm danh hằng ngày",
		"checkin.body":      "Điểm danh hôm nay để giữ chuỗi ngày học.",
		"checkin.confirm":   "Điểm danh",
		"checkin.skip":      "Để sau",
		"profile.title":     "Hồ sơ của bạn",
		"profile.streak":    "Chuỗi ngày",
		"profile.save":      "Lưu hồ sơ",
		"profile.password":  "Đổi mật khẩu",
		"footer.tagline":    "Mỗi ngày học một chút.",
	},
}

// T translates key into locale, falling back to English and then the key itself
func T(locale, key string) string {
	if msg, ok := messages[locale][key]; ok {
		return msg
	}
	if msg, ok := messages["en"][key]; ok {
		return msg
	}
	return key
}
