package domain

import "time"

const (
	hour = time.Hour
	day  = 24 * time.Hour
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// SampleData builds the fixed seed dataset with timestamps relative to now.
func SampleData(now time.Time) Dataset {
	return Dataset{
		Tasks:  sampleTasks(now),
		Events: sampleEvents(now),
		Users:  sampleUsers(now),
	}
}

func sampleTasks(now time.Time) []Task {
	return []Task{
		{
			Title:       "Làm bài tập Toán chương 3",
			Description: strPtr("Hoàn thành các bài tập từ trang 45-50 trong sách giáo khoa"),
			Subject:     "Toán",
			Deadline:    now.Add(2 * day),
			Priority:    2,
			CreatedAt:   now.Add(-1 * day),
		},
		{
			Title:       "Ôn tập từ vựng tiếng Anh",
			Description: strPtr("Học 50 từ mới trong Unit 5 và làm bài tập vocabulary"),
			Subject:     "Anh",
			Deadline:    now.Add(1 * day),
			IsCompleted: true,
			Priority:    1,
			CreatedAt:   now.Add(-2 * day),
			CompletedAt: timePtr(now.Add(-2 * hour)),
		},
		{
			Title:       "Đọc sách Văn học",
			Description: strPtr(`Đọc và phân tích tác phẩm "Truyện Kiều" của Nguyễn Du`),
			Subject:     "Văn",
			Deadline:    now.Add(3 * day),
			Priority:    3,
			CreatedAt:   now.Add(-3 * day),
		},
		{
			Title:       "Làm thí nghiệm Hóa học",
			Description: strPtr("Thực hành thí nghiệm về phản ứng oxi hóa khử trong phòng lab"),
			Subject:     "Hóa",
			Deadline:    now.Add(-1 * day),
			Priority:    1,
			CreatedAt:   now.Add(-4 * day),
		},
		{
			Title:       "Học lý thuyết Vật lý",
			Description: strPtr("Ôn tập chương điện học và từ học, chuẩn bị cho bài kiểm tra"),
			Subject:     "Lý",
			Deadline:    now.Add(5 * day),
			Priority:    2,
			CreatedAt:   now.Add(-5 * day),
		},
		{
			Title:       "Làm bài tập Sinh học",
			Description: strPtr("Hoàn thành bài tập về hệ tuần hoàn và hệ hô hấp"),
			Subject:     "Sinh",
			Deadline:    now.Add(4 * day),
			Priority:    2,
			CreatedAt:   now.Add(-1 * day),
		},
		{
			Title:       "Ôn tập Lịch sử",
			Description: strPtr("Học thuộc các sự kiện lịch sử Việt Nam thời kỳ 1945-1975"),
			Subject:     "Sử",
			Deadline:    now.Add(6 * day),
			Priority:    1,
			CreatedAt:   now.Add(-2 * day),
		},
		{
			Title:       "Làm bài tập Địa lý",
			Description: strPtr("Phân tích biểu đồ khí hậu và địa hình các vùng miền"),
			Subject:     "Địa",
			Deadline:    now.Add(7 * day),
			Priority:    1,
			CreatedAt:   now.Add(-3 * day),
		},
	}
}

func sampleEvents(now time.Time) []Event {
	return []Event{
		{
			Title:       "Học Toán",
			Description: strPtr("Ôn tập chương 3 về đạo hàm và ứng dụng"),
			StartTime:   now.Add(2 * hour),
			EndTime:     now.Add(4 * hour),
			Type:        EventStudy,
			Subject:     strPtr("Toán"),
			Location:    strPtr("Thư viện trường"),
			Color:       "#FF6B6B",
		},
		{
			Title:       "Kiểm tra Văn",
			Description: strPtr("Kiểm tra 15 phút về tác phẩm văn học"),
			StartTime:   now.Add(1*day + 8*hour),
			EndTime:     now.Add(1*day + 8*hour + 15*time.Minute),
			Type:        EventExam,
			Subject:     strPtr("Văn"),
			Location:    strPtr("Lớp 12A1"),
			Color:       "#4ECDC4",
		},
		{
			Title:       "Nhóm học tập",
			Description: strPtr("Thảo luận nhóm về bài tập Hóa học"),
			StartTime:   now.Add(2*day + 14*hour),
			EndTime:     now.Add(2*day + 16*hour),
			Type:        EventStudy,
			Subject:     strPtr("Hóa"),
			Location:    strPtr("Phòng học nhóm"),
			Color:       "#45B7D1",
		},
		{
			Title:       "Thi thử Đại học",
			Description: strPtr("Làm bài thi thử môn Toán và Văn"),
			StartTime:   now.Add(3*day + 7*hour),
			EndTime:     now.Add(3*day + 11*hour),
			Type:        EventExam,
			Location:    strPtr("Hội trường trường"),
			Color:       "#96CEB4",
		},
		{
			Title:       "Dã ngoại học tập",
			Description: strPtr("Tham quan bảo tàng lịch sử và địa lý"),
			StartTime:   now.Add(5*day + 8*hour),
			EndTime:     now.Add(5*day + 17*hour),
			Type:        EventOther,
			Location:    strPtr("Bảo tàng Lịch sử Việt Nam"),
			IsAllDay:    true,
			Color:       "#FFEAA7",
		},
	}
}

func sampleUsers(now time.Time) []UserProfile {
	const school = "THPT Chuyên Hà Nội - Amsterdam"
	return []UserProfile{
		{
			Name:        "Nguyễn Văn An",
			Email:       "an.nguyen@example.com",
			Avatar:      strPtr("https://example.com/avatar1.jpg"),
			Grade:       strPtr("12"),
			School:      strPtr(school),
			CreatedAt:   now.Add(-30 * day),
			LastLoginAt: timePtr(now),
		},
		{
			Name:        "Trần Thị Bình",
			Email:       "binh.tran@example.com",
			Avatar:      strPtr("https://example.com/avatar2.jpg"),
			Grade:       strPtr("12"),
			School:      strPtr(school),
			CreatedAt:   now.Add(-25 * day),
			LastLoginAt: timePtr(now.Add(-2 * hour)),
		},
		{
			Name:        "Lê Hoàng Cường",
			Email:       "cuong.le@example.com",
			Avatar:      strPtr("https://example.com/avatar3.jpg"),
			Grade:       strPtr("12"),
			School:      strPtr(school),
			CreatedAt:   now.Add(-20 * day),
			LastLoginAt: timePtr(now.Add(-5 * hour)),
		},
	}
}
