package dashboard

import "strings"

// Messages holds every user-visible string the view-models produce.
type Messages struct {
	// Tables.
	ColSymbol, ColName, ColPrice, ColChange string
	NoData, NoETFData                       string

	// Status line.
	Connecting, Connected, Disconnected string
	ConnectError, SocketError           string
	LoadError                           string
	UpdatedAt                           string // fmt pattern taking the clock time
	TimeLayout                          string

	// News.
	NewsEmpty, NewsNoDescription, NewsInvalidDate string
	NewsLoading, NewsLoaded, NewsError            string
	NewsTimeout, NewsUnreachable                  string
	NewsSearchPlaceholder                         string
	NewsCategories                                map[string]string

	// Chat.
	ChatWelcome, ChatConnectionError, ChatErrorPrefix string
	ChatPlaceholder                                   string
}

var vietnamese = Messages{
	ColSymbol: "Mã", ColName: "Tên", ColPrice: "Giá", ColChange: "Thay đổi",
	NoData:    "Không có dữ liệu",
	NoETFData: "Không có dữ liệu ETF",

	Connecting:   "Đang kết nối...",
	Connected:    "Đã kết nối - Đang chờ dữ liệu...",
	Disconnected: "Mất kết nối - Đang thử kết nối lại...",
	ConnectError: "Lỗi kết nối - Vui lòng thử lại",
	SocketError:  "Lỗi socket - Kiểm tra kết nối",
	LoadError:    "Lỗi tải dữ liệu - Đang thử lại...",
	UpdatedAt:    "Cập nhật lúc: %s",
	TimeLayout:   "15:04:05",

	NewsEmpty:             "No news found",
	NewsNoDescription:     "No description available",
	NewsInvalidDate:       "Invalid Date",
	NewsLoading:           "Đang tải tin tức...",
	NewsLoaded:            "Đã tải tin tức thành công",
	NewsError:             "Lỗi khi tải tin tức: %s",
	NewsTimeout:           "Timeout - Yêu cầu mất quá nhiều thời gian",
	NewsUnreachable:       "Không thể kết nối đến server",
	NewsSearchPlaceholder: "Tìm kiếm tin tức...",
	NewsCategories: map[string]string{
		"all": "Tất cả", "market": "Thị trường", "company": "Doanh nghiệp", "economy": "Kinh tế",
	},

	ChatWelcome:         "Xin chào! Tôi là chuyên gia tài chính với 20 năm kinh nghiệm trong lĩnh vực đầu tư chứng khoán Mỹ. Bạn có thể hỏi tôi về phân tích các mã như AAPL, GOOGL, MSFT hoặc bất kỳ câu hỏi đầu tư nào! 📈💼",
	ChatConnectionError: "❌ Lỗi kết nối. Vui lòng thử lại sau!",
	ChatErrorPrefix:     "❌ ",
	ChatPlaceholder:     "Nhập câu hỏi...",
}

var english = Messages{
	ColSymbol: "Symbol", ColName: "Name", ColPrice: "Price", ColChange: "Change",
	NoData:    "No data",
	NoETFData: "No ETF data",

	Connecting:   "Connecting...",
	Connected:    "Connected - waiting for data...",
	Disconnected: "Disconnected - trying to reconnect...",
	ConnectError: "Connection error - please retry",
	SocketError:  "Socket error - check your connection",
	LoadError:    "Failed to load data - retrying...",
	UpdatedAt:    "Updated at: %s",
	TimeLayout:   "3:04:05 PM",

	NewsEmpty:             "No news found",
	NewsNoDescription:     "No description available",
	NewsInvalidDate:       "Invalid Date",
	NewsLoading:           "Loading news...",
	NewsLoaded:            "News loaded",
	NewsError:             "Error loading news: %s",
	NewsTimeout:           "Timeout - the request took too long",
	NewsUnreachable:       "Cannot reach the server",
	NewsSearchPlaceholder: "Search news...",
	NewsCategories: map[string]string{
		"all": "All", "market": "Market", "company": "Company", "economy": "Economy",
	},

	ChatWelcome:         "Hello! I am a financial analyst with 20 years of experience in US equities. Ask me about tickers such as AAPL, GOOGL, MSFT or any investing question! 📈💼",
	ChatConnectionError: "❌ Connection error. Please try again later!",
	ChatErrorPrefix:     "❌ ",
	ChatPlaceholder:     "Type a question...",
}

// MessagesFor returns the catalog for a locale ("vi" or "en"). Unknown
// locales get Vietnamese, the dashboard's default audience.
func MessagesFor(locale string) Messages {
	switch strings.ToLower(locale) {
	case "en", "en-us", "en_us":
		return english
	default:
		return vietnamese
	}
}
