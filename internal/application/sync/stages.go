package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/analytics"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/domain/campaign"
	"github.com/sellerpulse/backend/internal/domain/catalog"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"github.com/sellerpulse/backend/internal/infrastructure/logger"
	"github.com/sellerpulse/backend/internal/infrastructure/marketplace"
	"go.uber.org/zap"
)

// API captures the marketplace calls the pipeline stages make. Satisfied
// by *marketplace.Client.
type API interface {
	ListCards(ctx context.Context, token string) ([]marketplace.Card, error)
	GetPrices(ctx context.Context, token string, nmIDs []int64) ([]marketplace.GoodPrices, error)
	GetStocks(ctx context.Context, token string, since time.Time) ([]marketplace.Stock, error)
	ListCampaigns(ctx context.Context, token string) ([]marketplace.CampaignHead, error)
	GetCampaignDetails(ctx context.Context, token string, advertIDs []int64) ([]marketplace.CampaignDetail, error)
	GetCampaignStats(ctx context.Context, token string, advertID int64, from, to time.Time) ([]marketplace.CampaignDayStat, error)
	GetCardAnalytics(ctx context.Context, token string, nmIDs []int64, from, to time.Time) ([]marketplace.CardAnalytics, error)
	ListPromotions(ctx context.Context, token string, from, to time.Time) ([]marketplace.PromotionHead, error)
	GetPromotionDetail(ctx context.Context, token string, promotionID int64) (*marketplace.PromotionDetail, error)
	GetRatings(ctx context.Context, token string, nmIDs []int64) ([]marketplace.ItemRating, error)
}

// Window is the date range a sync run covers
type Window struct {
	From time.Time
	To   time.Time
}

// Pipeline holds the collaborators shared by all sync stages of one run
type Pipeline struct {
	api       API
	items     catalog.ItemRepository
	prices    catalog.PriceRepository
	stocks    catalog.StockRepository
	campaigns campaign.Repository
	cardStats analytics.CardMetricRepository
	adStats   analytics.CampaignMetricRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewPipeline creates a Pipeline over the given marketplace API and
// repositories
func NewPipeline(
	api API,
	items catalog.ItemRepository,
	prices catalog.PriceRepository,
	stocks catalog.StockRepository,
	campaigns campaign.Repository,
	cardStats analytics.CardMetricRepository,
	adStats analytics.CampaignMetricRepository,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		api:       api,
		items:     items,
		prices:    prices,
		stocks:    stocks,
		campaigns: campaigns,
		cardStats: cardStats,
		adStats:   adStats,
		logger:    log,
		now:       time.Now,
	}
}

// stage is one step of the per-cabinet pipeline
type stage struct {
	name string
	run  func(ctx context.Context, cab *cabinet.Cabinet, w Window) error
}

// stages returns the pipeline steps in their fixed execution order
func (p *Pipeline) stages() []stage {
	return []stage{
		{"cards", p.syncCards},
		{"prices", p.syncPrices},
		{"stocks", p.syncStocks},
		{"campaigns", p.syncCampaigns},
		{"statistics", p.syncStatistics},
		{"promotions", p.syncPromotions},
		{"ratings", p.syncRatings},
	}
}

// syncCards walks the full card listing and mirrors every card and its
// barcodes
func (p *Pipeline) syncCards(ctx context.Context, cab *cabinet.Cabinet, _ Window) error {
	log := logger.FromContext(ctx)

	cards, err := p.api.ListCards(ctx, cab.APIToken)
	if err != nil {
		return err
	}

	var stats UpsertStats
	for _, card := range cards {
		outcome, err := p.upsertCard(ctx, cab.ID, card)
		if err != nil {
			return err
		}
		stats.Add(outcome)
	}

	log.Info("cards mirrored",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped))
	return nil
}

// upsertCard creates or refreshes one card and replaces its barcode set.
// A card already owned by a different cabinet is skipped, never stolen.
func (p *Pipeline) upsertCard(ctx context.Context, cabinetID uuid.UUID, card marketplace.Card) (UpsertStats, error) {
	log := logger.FromContext(ctx)
	var stats UpsertStats

	item, err := p.items.FindByNmID(ctx, card.NmID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		item, err = catalog.NewItem(cabinetID, card.NmID, card.Title)
		if err != nil {
			log.Warn("rejected card", zap.Int64("nm_id", card.NmID), zap.Error(err))
			stats.Skipped++
			return stats, nil
		}
		item.ApplyCard(card.Title, card.Brand, card.Category, card.VendorCode)
		stats.Created++
	case err != nil:
		return stats, err
	case item.CabinetID != cabinetID:
		log.Warn("card owned by another cabinet, skipping",
			zap.Int64("nm_id", card.NmID),
			zap.String("owner_cabinet_id", item.CabinetID.String()),
			zap.Error(shared.ErrOwnershipConflict))
		stats.Skipped++
		return stats, nil
	default:
		item.ApplyCard(card.Title, card.Brand, card.Category, card.VendorCode)
		stats.Updated++
	}

	if err := p.items.Save(ctx, item); err != nil {
		return stats, err
	}

	barcodes := make([]catalog.Barcode, 0, len(card.Sizes))
	for _, size := range card.Sizes {
		for _, code := range size.Barcodes {
			bc, err := catalog.NewBarcode(cabinetID, card.NmID, code, size.TechSize)
			if err != nil {
				log.Warn("rejected barcode", zap.Int64("nm_id", card.NmID), zap.Error(err))
				continue
			}
			barcodes = append(barcodes, *bc)
		}
	}
	return stats, p.items.ReplaceBarcodes(ctx, cabinetID, card.NmID, barcodes)
}

// syncPrices records today's price snapshot for every card that does not
// have one yet. Prices are written at most once per day.
func (p *Pipeline) syncPrices(ctx context.Context, cab *cabinet.Cabinet, _ Window) error {
	log := logger.FromContext(ctx)

	nmIDs, err := p.items.FindNmIDsForCabinet(ctx, cab.ID)
	if err != nil {
		return err
	}

	today := shared.Day(p.now())
	day := today.Format(marketplace.DateLayout)

	pending := make([]int64, 0, len(nmIDs))
	for _, nmID := range nmIDs {
		exists, err := p.prices.ExistsForDay(ctx, cab.ID, nmID, today)
		if err != nil {
			return err
		}
		if !exists {
			pending = append(pending, nmID)
		}
	}
	if len(pending) == 0 {
		log.Info("price snapshots already present", zap.String("day", day))
		return nil
	}

	var written int
	for _, chunk := range shared.ChunkBy(pending, marketplace.MaxPriceIDs) {
		goods, err := p.api.GetPrices(ctx, cab.APIToken, chunk)
		if err != nil {
			return err
		}

		snapshots := make([]catalog.PriceSnapshot, 0, len(goods))
		for _, g := range goods {
			for _, size := range g.Sizes {
				snap, err := catalog.NewPriceSnapshot(cab.ID, g.NmID, today, size.TechSize, size.Price, size.DiscountedPrice)
				if err != nil {
					log.Warn("rejected price row", zap.Int64("nm_id", g.NmID), zap.Error(err))
					continue
				}
				snapshots = append(snapshots, *snap)
			}
		}
		if err := p.prices.SaveAll(ctx, snapshots); err != nil {
			return err
		}
		written += len(snapshots)
	}

	log.Info("price snapshots written", zap.String("day", day), zap.Int("rows", written))
	return nil
}

// syncStocks overwrites the current stock amounts in place
func (p *Pipeline) syncStocks(ctx context.Context, cab *cabinet.Cabinet, w Window) error {
	log := logger.FromContext(ctx)

	remote, err := p.api.GetStocks(ctx, cab.APIToken, w.From)
	if err != nil {
		return err
	}

	existing, err := p.stocks.FindForCabinet(ctx, cab.ID)
	if err != nil {
		return err
	}
	type stockKey struct {
		nmID        int64
		warehouseID int64
		barcode     string
	}
	byKey := make(map[stockKey]*catalog.StockSnapshot, len(existing))
	for i := range existing {
		s := &existing[i]
		byKey[stockKey{s.NmID, s.WarehouseID, s.Barcode}] = s
	}

	var stats UpsertStats
	for _, st := range remote {
		key := stockKey{st.NmID, st.WarehouseID, st.Barcode}
		if row, ok := byKey[key]; ok {
			row.ApplyAmount(st.Amount)
			if err := p.stocks.Save(ctx, row); err != nil {
				return err
			}
			stats.Updated++
			continue
		}
		// A zero amount for a combination we have never seen carries no
		// information; only existing rows are driven down to zero
		if st.Amount == 0 {
			stats.Skipped++
			continue
		}
		row, err := catalog.NewStockSnapshot(cab.ID, st.NmID, st.WarehouseID, st.Barcode, st.Amount)
		if err != nil {
			log.Warn("rejected stock row", zap.Int64("nm_id", st.NmID), zap.Error(err))
			stats.Skipped++
			continue
		}
		if err := p.stocks.Save(ctx, row); err != nil {
			return err
		}
		stats.Created++
	}

	log.Info("stocks mirrored",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped))
	return nil
}

// syncCampaigns lists the cabinet's ad campaigns, fetches their details
// in batches and mirrors them with their item links
func (p *Pipeline) syncCampaigns(ctx context.Context, cab *cabinet.Cabinet, _ Window) error {
	log := logger.FromContext(ctx)

	heads, err := p.api.ListCampaigns(ctx, cab.APIToken)
	if err != nil {
		return err
	}

	// Unknown status or type codes reject the campaign, not the stage
	valid := make([]int64, 0, len(heads))
	var stats UpsertStats
	for _, head := range heads {
		if _, err := campaign.ParseStatus(head.StatusCode); err != nil {
			log.Error("unknown campaign status code",
				zap.Int64("advert_id", head.AdvertID),
				zap.Int("status_code", head.StatusCode))
			stats.Skipped++
			continue
		}
		if _, err := campaign.ParseType(head.TypeCode); err != nil {
			log.Error("unknown campaign type code",
				zap.Int64("advert_id", head.AdvertID),
				zap.Int("type_code", head.TypeCode))
			stats.Skipped++
			continue
		}
		valid = append(valid, head.AdvertID)
	}

	for _, chunk := range shared.ChunkBy(valid, marketplace.MaxCampaignDetailIDs) {
		details, err := p.api.GetCampaignDetails(ctx, cab.APIToken, chunk)
		if err != nil {
			return err
		}
		for _, detail := range details {
			outcome, err := p.upsertCampaign(ctx, cab.ID, detail)
			if err != nil {
				return err
			}
			stats.Add(outcome)
		}
	}

	log.Info("campaigns mirrored",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped))
	return nil
}

// upsertCampaign creates or refreshes one campaign and maintains its
// item links according to its status
func (p *Pipeline) upsertCampaign(ctx context.Context, cabinetID uuid.UUID, detail marketplace.CampaignDetail) (UpsertStats, error) {
	log := logger.FromContext(ctx)
	var stats UpsertStats

	status, err := campaign.ParseStatus(detail.StatusCode)
	if err != nil {
		log.Error("unknown campaign status code", zap.Int64("advert_id", detail.AdvertID), zap.Int("status_code", detail.StatusCode))
		stats.Skipped++
		return stats, nil
	}
	typ, err := campaign.ParseType(detail.TypeCode)
	if err != nil {
		log.Error("unknown campaign type code", zap.Int64("advert_id", detail.AdvertID), zap.Int("type_code", detail.TypeCode))
		stats.Skipped++
		return stats, nil
	}

	c, err := p.campaigns.FindByAdvertID(ctx, detail.AdvertID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c, err = campaign.NewCampaign(cabinetID, detail.AdvertID, detail.Name, typ, status)
		if err != nil {
			log.Warn("rejected campaign", zap.Int64("advert_id", detail.AdvertID), zap.Error(err))
			stats.Skipped++
			return stats, nil
		}
		stats.Created++
	case err != nil:
		return stats, err
	case c.CabinetID != cabinetID:
		log.Warn("campaign owned by another cabinet, skipping",
			zap.Int64("advert_id", detail.AdvertID),
			zap.String("owner_cabinet_id", c.CabinetID.String()),
			zap.Error(shared.ErrOwnershipConflict))
		stats.Skipped++
		return stats, nil
	default:
		c.Apply(detail.Name, typ, status)
		stats.Updated++
	}

	if err := p.campaigns.Save(ctx, c); err != nil {
		return stats, err
	}

	if !c.LinksRefreshed() {
		return stats, p.campaigns.DeleteLinks(ctx, cabinetID, detail.AdvertID)
	}

	links := make([]campaign.ItemLink, 0, len(detail.NmIDs))
	for _, nmID := range detail.NmIDs {
		link, err := campaign.NewItemLink(cabinetID, detail.AdvertID, nmID)
		if err != nil {
			log.Warn("rejected campaign link", zap.Int64("advert_id", detail.AdvertID), zap.Int64("nm_id", nmID), zap.Error(err))
			continue
		}
		links = append(links, *link)
	}
	return stats, p.campaigns.ReplaceLinks(ctx, cabinetID, detail.AdvertID, links)
}

// syncStatistics backfills the daily funnel records of every card and
// the daily ad statistics of every campaign through the gap reconciler,
// one subject at a time
func (p *Pipeline) syncStatistics(ctx context.Context, cab *cabinet.Cabinet, w Window) error {
	log := logger.FromContext(ctx)

	nmIDs, err := p.items.FindNmIDsForCabinet(ctx, cab.ID)
	if err != nil {
		return err
	}
	var funnel ReconcileStats
	for _, nmID := range nmIDs {
		stats, err := p.reconcileCardDays(ctx, cab, nmID, w)
		if err != nil {
			return fmt.Errorf("card %d funnel: %w", nmID, err)
		}
		funnel.Missing += stats.Missing
		funnel.Fetched += stats.Fetched
		funnel.Persisted += stats.Persisted
	}

	advertIDs, err := p.campaigns.FindAdvertIDsForCabinet(ctx, cab.ID)
	if err != nil {
		return err
	}
	var ads ReconcileStats
	for _, advertID := range advertIDs {
		stats, err := p.reconcileCampaignDays(ctx, cab, advertID, w)
		if err != nil {
			return fmt.Errorf("campaign %d statistics: %w", advertID, err)
		}
		ads.Missing += stats.Missing
		ads.Fetched += stats.Fetched
		ads.Persisted += stats.Persisted
	}

	log.Info("statistics reconciled",
		zap.Int("funnel_missing", funnel.Missing),
		zap.Int("funnel_persisted", funnel.Persisted),
		zap.Int("ad_missing", ads.Missing),
		zap.Int("ad_persisted", ads.Persisted))
	return nil
}

// reconcileCardDays fills the funnel gaps of one card
func (p *Pipeline) reconcileCardDays(ctx context.Context, cab *cabinet.Cabinet, nmID int64, w Window) (ReconcileStats, error) {
	return ReconcileDays(ctx, w.From, w.To,
		func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
			return p.cardStats.PresentDates(ctx, cab.ID, nmID, from, to)
		},
		func(ctx context.Context, from, to time.Time) ([]DayRecord[analytics.CardMetric], error) {
			cards, err := p.api.GetCardAnalytics(ctx, cab.APIToken, []int64{nmID}, from, to)
			if err != nil {
				return nil, err
			}
			var records []DayRecord[analytics.CardMetric]
			for _, card := range cards {
				for _, day := range card.Days {
					d, err := time.Parse(marketplace.DateLayout, day.Date)
					if err != nil {
						return nil, fmt.Errorf("funnel date %q: %w", day.Date, err)
					}
					m, err := analytics.NewCardMetric(cab.ID, card.NmID, d, day.Opens, day.Baskets, day.Orders, day.Buyouts)
					if err != nil {
						return nil, err
					}
					records = append(records, DayRecord[analytics.CardMetric]{Day: d, Record: *m})
				}
			}
			return records, nil
		},
		func(ctx context.Context, records []analytics.CardMetric) error {
			return p.cardStats.SaveAll(ctx, records)
		},
	)
}

// reconcileCampaignDays fills the ad statistics gaps of one campaign
func (p *Pipeline) reconcileCampaignDays(ctx context.Context, cab *cabinet.Cabinet, advertID int64, w Window) (ReconcileStats, error) {
	return ReconcileDays(ctx, w.From, w.To,
		func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
			return p.adStats.PresentDates(ctx, cab.ID, advertID, from, to)
		},
		func(ctx context.Context, from, to time.Time) ([]DayRecord[analytics.CampaignMetric], error) {
			days, err := p.api.GetCampaignStats(ctx, cab.APIToken, advertID, from, to)
			if err != nil {
				return nil, err
			}
			var records []DayRecord[analytics.CampaignMetric]
			for _, day := range days {
				d, err := time.Parse(marketplace.DateLayout, day.Date)
				if err != nil {
					return nil, fmt.Errorf("ad stats date %q: %w", day.Date, err)
				}
				m, err := analytics.NewCampaignMetric(cab.ID, advertID, d, day.Views, day.Clicks, day.Spend)
				if err != nil {
					return nil, err
				}
				records = append(records, DayRecord[analytics.CampaignMetric]{Day: d, Record: *m})
			}
			return records, nil
		},
		func(ctx context.Context, records []analytics.CampaignMetric) error {
			return p.adStats.SaveAll(ctx, records)
		},
	)
}

// syncPromotions mirrors promotional-calendar entries as campaigns of
// the promotion type. A promotion the marketplace refuses to detail is
// skipped, not fatal.
func (p *Pipeline) syncPromotions(ctx context.Context, cab *cabinet.Cabinet, w Window) error {
	log := logger.FromContext(ctx)

	heads, err := p.api.ListPromotions(ctx, cab.APIToken, w.From, w.To)
	if err != nil {
		return err
	}

	var stats UpsertStats
	for _, head := range heads {
		detail, err := p.api.GetPromotionDetail(ctx, cab.APIToken, head.ID)
		if err != nil {
			if marketplace.IsKind(err, marketplace.KindValidationRejected) {
				log.Warn("promotion rejected by marketplace, skipping",
					zap.Int64("promotion_id", head.ID), zap.Error(err))
				stats.Skipped++
				continue
			}
			return err
		}
		outcome, err := p.upsertPromotion(ctx, cab.ID, detail)
		if err != nil {
			return err
		}
		stats.Add(outcome)
	}

	log.Info("promotions mirrored",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped))
	return nil
}

// upsertPromotion stores one promotional-calendar entry as a campaign
// of the promotion type. Promotions carry no numeric status code; ones
// still accepting leftovers count as active.
func (p *Pipeline) upsertPromotion(ctx context.Context, cabinetID uuid.UUID, detail *marketplace.PromotionDetail) (UpsertStats, error) {
	log := logger.FromContext(ctx)
	var stats UpsertStats

	status := campaign.StatusFinished
	if detail.InPromoAction {
		status = campaign.StatusActive
	}

	c, err := p.campaigns.FindByAdvertID(ctx, detail.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c, err = campaign.NewCampaign(cabinetID, detail.ID, detail.Name, campaign.TypePromotion, status)
		if err != nil {
			log.Warn("rejected promotion", zap.Int64("promotion_id", detail.ID), zap.Error(err))
			stats.Skipped++
			return stats, nil
		}
		stats.Created++
	case err != nil:
		return stats, err
	case c.CabinetID != cabinetID:
		log.Warn("promotion owned by another cabinet, skipping",
			zap.Int64("promotion_id", detail.ID),
			zap.String("owner_cabinet_id", c.CabinetID.String()),
			zap.Error(shared.ErrOwnershipConflict))
		stats.Skipped++
		return stats, nil
	default:
		c.Apply(detail.Name, campaign.TypePromotion, status)
		stats.Updated++
	}

	if err := p.campaigns.Save(ctx, c); err != nil {
		return stats, err
	}

	if !c.LinksRefreshed() {
		return stats, p.campaigns.DeleteLinks(ctx, cabinetID, detail.ID)
	}
	links := make([]campaign.ItemLink, 0, len(detail.NmIDs))
	for _, nmID := range detail.NmIDs {
		link, err := campaign.NewItemLink(cabinetID, detail.ID, nmID)
		if err != nil {
			continue
		}
		links = append(links, *link)
	}
	return stats, p.campaigns.ReplaceLinks(ctx, cabinetID, detail.ID, links)
}

// syncRatings refreshes the aggregate review rating of every card
func (p *Pipeline) syncRatings(ctx context.Context, cab *cabinet.Cabinet, _ Window) error {
	log := logger.FromContext(ctx)

	nmIDs, err := p.items.FindNmIDsForCabinet(ctx, cab.ID)
	if err != nil {
		return err
	}

	var stats UpsertStats
	for _, chunk := range shared.ChunkBy(nmIDs, marketplace.MaxRatingIDs) {
		ratings, err := p.api.GetRatings(ctx, cab.APIToken, chunk)
		if err != nil {
			return err
		}
		for _, rating := range ratings {
			item, err := p.items.FindByNmID(ctx, rating.NmID)
			if errors.Is(err, shared.ErrNotFound) {
				stats.Skipped++
				continue
			}
			if err != nil {
				return err
			}
			if item.CabinetID != cab.ID {
				log.Warn("rating for card owned by another cabinet, skipping",
					zap.Int64("nm_id", rating.NmID),
					zap.Error(shared.ErrOwnershipConflict))
				stats.Skipped++
				continue
			}
			item.ApplyRating(rating.Rating, rating.ReviewCount)
			if err := p.items.Save(ctx, item); err != nil {
				return err
			}
			stats.Updated++
		}
	}

	log.Info("ratings refreshed", zap.Int("updated", stats.Updated), zap.Int("skipped", stats.Skipped))
	return nil
}
