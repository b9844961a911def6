package marketplace

import "github.com/shopspring/decimal"

// Per-endpoint hard maxima for batch lookups. Callers chunk their id
// lists with shared.ChunkBy before calling; the client rejects larger
// batches outright.
const (
	MaxCampaignDetailIDs = 50
	MaxPriceIDs          = 1000
	MaxRatingIDs         = 100
	MaxAnalyticsIDs      = 100
)

// DateLayout is the calendar-day format used by all date-range endpoints
const DateLayout = "2006-01-02"

// errEnvelope is the error wrapper some endpoints embed in a 200 body
type errEnvelope struct {
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}

// problem is the RFC7807-style body other endpoints return on failure
type problem struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Card is one product card from the listing endpoint
type Card struct {
	NmID       int64      `json:"nmID"`
	Title      string     `json:"title"`
	Brand      string     `json:"brand"`
	Category   string     `json:"subjectName"`
	VendorCode string     `json:"vendorCode"`
	UpdatedAt  string     `json:"updatedAt"`
	Sizes      []CardSize `json:"sizes"`
}

// CardSize is one size variant of a card with its barcodes
type CardSize struct {
	TechSize string   `json:"techSize"`
	Barcodes []string `json:"skus"`
}

// cardListRequest drives the cursor-paginated card listing
type cardListRequest struct {
	Settings cardListSettings `json:"settings"`
}

type cardListSettings struct {
	Cursor cardListCursor `json:"cursor"`
	Filter cardListFilter `json:"filter"`
}

type cardListCursor struct {
	Limit     int    `json:"limit"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	NmID      int64  `json:"nmID,omitempty"`
}

type cardListFilter struct {
	WithPhoto int `json:"withPhoto"`
}

// cardListResponse is one page of the card listing
type cardListResponse struct {
	errEnvelope
	Cards  []Card `json:"cards"`
	Cursor struct {
		UpdatedAt string `json:"updatedAt"`
		NmID      int64  `json:"nmID"`
		Total     int    `json:"total"`
	} `json:"cursor"`
}

// GoodPrices carries the current pricing of one card, per size
type GoodPrices struct {
	NmID  int64       `json:"nmID"`
	Sizes []SizePrice `json:"sizes"`
}

// SizePrice is the pricing of a single size variant
type SizePrice struct {
	TechSize        string          `json:"techSizeName"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
}

type priceListRequest struct {
	NmIDs []int64 `json:"nmIDs"`
}

type priceListResponse struct {
	errEnvelope
	Data struct {
		ListGoods []GoodPrices `json:"listGoods"`
	} `json:"data"`
}

// Stock is the current amount of one barcode in one warehouse
type Stock struct {
	NmID        int64  `json:"nmId"`
	WarehouseID int64  `json:"warehouseId"`
	Barcode     string `json:"barcode"`
	Amount      int    `json:"quantity"`
}

// CampaignHead is a campaign as returned by the listing endpoint
type CampaignHead struct {
	AdvertID   int64 `json:"advertId"`
	TypeCode   int   `json:"type"`
	StatusCode int   `json:"status"`
}

type campaignListResponse struct {
	errEnvelope
	Adverts []CampaignHead `json:"adverts"`
}

// CampaignDetail is the full campaign record from the batch detail
// endpoint, including its promoted card ids
type CampaignDetail struct {
	AdvertID   int64   `json:"advertId"`
	Name       string  `json:"name"`
	TypeCode   int     `json:"type"`
	StatusCode int     `json:"status"`
	NmIDs      []int64 `json:"nms"`
}

// CampaignDayStat is one day of ad statistics for a campaign
type CampaignDayStat struct {
	Date   string          `json:"date"`
	Views  int             `json:"views"`
	Clicks int             `json:"clicks"`
	Spend  decimal.Decimal `json:"sum"`
}

type campaignStatsRequest struct {
	AdvertID int64    `json:"id"`
	Dates    []string `json:"dates"`
}

type campaignStatsResponse struct {
	AdvertID int64             `json:"advertId"`
	Days     []CampaignDayStat `json:"days"`
}

// CardAnalytics carries the daily funnel history of one card
type CardAnalytics struct {
	NmID int64         `json:"nmID"`
	Days []CardDayStat `json:"history"`
}

// CardDayStat is one day of funnel metrics for a card
type CardDayStat struct {
	Date    string `json:"dt"`
	Opens   int    `json:"openCardCount"`
	Baskets int    `json:"addToCartCount"`
	Orders  int    `json:"ordersCount"`
	Buyouts int    `json:"buyoutsCount"`
}

type cardAnalyticsRequest struct {
	NmIDs  []int64         `json:"nmIDs"`
	Period analyticsPeriod `json:"period"`
}

type analyticsPeriod struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

type cardAnalyticsResponse struct {
	errEnvelope
	Data []CardAnalytics `json:"data"`
}

// PromotionHead is a promotional-calendar entry from the listing call
type PromotionHead struct {
	ID int64 `json:"id"`
}

type promotionListResponse struct {
	Data struct {
		Promotions []PromotionHead `json:"promotions"`
	} `json:"data"`
}

// PromotionDetail is a promotional-calendar entry with participation
type PromotionDetail struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	InPromoAction bool    `json:"inPromoActionLeftovers"`
	NmIDs         []int64 `json:"nomenclatures"`
}

type promotionDetailResponse struct {
	Data struct {
		Promotions []PromotionDetail `json:"promotions"`
	} `json:"data"`
}

// ItemRating is the aggregate review rating of one card
type ItemRating struct {
	NmID        int64   `json:"nmId"`
	Rating      float64 `json:"valuation"`
	ReviewCount int     `json:"feedbacksCount"`
}

type ratingRequest struct {
	NmIDs []int64 `json:"nmIds"`
}

type ratingResponse struct {
	errEnvelope
	Data []ItemRating `json:"data"`
}
