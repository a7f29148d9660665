// Package services defines the business logic for the travel assistant.
// This file centralizes the pre-composed user-facing messages. Every surface
// the user sees is one of these fixed Vietnamese strings; stack traces and
// raw error payloads stay in the logs.
package services

const (
	// msgClarify asks which place the user means. Returned without any I/O
	// when the classifier produced no entity.
	msgClarify = `Bạn muốn xem giá vé địa điểm nào? Ví dụ: "Giá vé Tràng An bao nhiêu?"`

	// msgLookupBusy is the generic degraded-dependency apology.
	msgLookupBusy = "⚠️ Hệ thống tra cứu đang bận. Vui lòng thử lại sau nhé."

	// msgUnknownIntent is the fixed fallback for unclassified messages.
	msgUnknownIntent = "Xin lỗi, mình chưa hiểu ý bạn. Bạn có thể hỏi về giá vé, thời tiết hoặc địa điểm du lịch nhé!"

	// msgNotFoundFmt reports that a place is unknown to both the store and
	// the fallback API. Takes the display name.
	msgNotFoundFmt = "❌ Không tìm thấy thông tin giá vé của <b>%s</b>."
)
