package reports

import (
	"context"
	"sort"
	"time"

	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the reconciliation engine. It converts USD acquisition costs into
// AED with the configured rate and combines them with the destination-market
// ledgers. Every figure is derived from the ledgers on request; nothing here is
// cached or snapshotted.
type Service struct {
	DB   *gorm.DB
	Rate decimal.Decimal
}

// NewService wires the engine with the USD→AED conversion rate from config.
func NewService(db *gorm.DB, rate float64) *Service {
	return &Service{DB: db, Rate: decimal.NewFromFloat(rate)}
}

// profit computes sales − expenses − cost×Rate, rounded to fils.
func (s *Service) profit(salesTotal, expensesTotal, costUSD float64) float64 {
	return decimal.NewFromFloat(salesTotal).
		Sub(decimal.NewFromFloat(expensesTotal)).
		Sub(decimal.NewFromFloat(costUSD).Mul(s.Rate)).
		Round(2).InexactFloat64()
}

// ContainerProfit is the per-container reconciliation.
type ContainerProfit struct {
	ContainerID   uuid.UUID `json:"container_id"`
	TotalSales    float64   `json:"total_sales"`
	TotalExpenses float64   `json:"total_expenses"`
	CostUSD       float64   `json:"cost_usd"`
	CostAED       float64   `json:"cost_aed"`
	Profit        float64   `json:"profit"`
}

// ContainerBalance is the remaining vendor balance for a container.
type ContainerBalance struct {
	ContainerID    uuid.UUID `json:"container_id"`
	GrandTotal     float64   `json:"grand_total"`
	TotalTransfers float64   `json:"total_transfers"`
	Remaining      float64   `json:"remaining"`
}

func (s *Service) loadContainer(ctx context.Context, p *models.Principal, containerID uuid.UUID) (*models.Container, error) {
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	return &container, nil
}

func (s *Service) sum(ctx context.Context, model interface{}, column string, containerID uuid.UUID) (float64, error) {
	var total float64
	if err := s.DB.WithContext(ctx).Model(model).
		Where("container_id = ?", containerID).
		Select("COALESCE(SUM(" + column + "), 0)").
		Scan(&total).Error; err != nil {
		return 0, apperr.Internal("Failed to aggregate ledger", err)
	}
	return total, nil
}

// Profit reconciles one container: totalSales − totalExpenses − grandTotal×Rate.
func (s *Service) Profit(ctx context.Context, p *models.Principal, containerID uuid.UUID) (*ContainerProfit, error) {
	container, err := s.loadContainer(ctx, p, containerID)
	if err != nil {
		return nil, err
	}
	salesTotal, err := s.sum(ctx, &models.SaleItem{}, "sale_price", containerID)
	if err != nil {
		return nil, err
	}
	expensesTotal, err := s.sum(ctx, &models.ExpenseItem{}, "amount", containerID)
	if err != nil {
		return nil, err
	}
	costAED := decimal.NewFromFloat(container.GrandTotal).Mul(s.Rate).Round(2)
	return &ContainerProfit{
		ContainerID:   containerID,
		TotalSales:    salesTotal,
		TotalExpenses: expensesTotal,
		CostUSD:       container.GrandTotal,
		CostAED:       costAED.InexactFloat64(),
		Profit:        s.profit(salesTotal, expensesTotal, container.GrandTotal),
	}, nil
}

// Balance is grandTotal minus cumulative transfers, both USD.
func (s *Service) Balance(ctx context.Context, p *models.Principal, containerID uuid.UUID) (*ContainerBalance, error) {
	container, err := s.loadContainer(ctx, p, containerID)
	if err != nil {
		return nil, err
	}
	paid, err := s.sum(ctx, &models.Transfer{}, "amount", containerID)
	if err != nil {
		return nil, err
	}
	remaining := decimal.NewFromFloat(container.GrandTotal).
		Sub(decimal.NewFromFloat(paid)).Round(2).InexactFloat64()
	return &ContainerBalance{
		ContainerID:    containerID,
		GrandTotal:     container.GrandTotal,
		TotalTransfers: paid,
		Remaining:      remaining,
	}, nil
}

// UserSummary is the per-user rollup across owned containers.
type UserSummary struct {
	UserID        uuid.UUID `json:"user_id"`
	Fullname      string    `json:"fullname"`
	TotalCost     float64   `json:"total_cost"`
	TotalSales    float64   `json:"total_sales"`
	TotalExpenses float64   `json:"total_expenses"`
	Profit        float64   `json:"profit"`
}

type ownerTotal struct {
	OwnerID uuid.UUID
	Total   float64
}

// UserSummaries rolls up cost/sales/expenses/profit for every active
// non-manager user. Manager-only.
func (s *Service) UserSummaries(ctx context.Context, p *models.Principal) ([]UserSummary, error) {
	if !p.IsManager() {
		return nil, apperr.Forbidden("Only managers may view user summaries")
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).
		Where("role <> ? AND is_active = ?", models.RoleManager, true).
		Order("fullname ASC").
		Find(&users).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}

	costByOwner, err := s.ownerTotals(ctx)
	if err != nil {
		return nil, err
	}
	salesByOwner, err := s.ownerJoinTotals(ctx, `"SaleItems"`, "sale_price")
	if err != nil {
		return nil, err
	}
	expensesByOwner, err := s.ownerJoinTotals(ctx, `"ExpenseItems"`, "amount")
	if err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		cost := costByOwner[u.UserID]
		salesTotal := salesByOwner[u.UserID]
		expensesTotal := expensesByOwner[u.UserID]
		out = append(out, UserSummary{
			UserID:        u.UserID,
			Fullname:      u.Fullname,
			TotalCost:     cost,
			TotalSales:    salesTotal,
			TotalExpenses: expensesTotal,
			Profit:        s.profit(salesTotal, expensesTotal, cost),
		})
	}
	return out, nil
}

func (s *Service) ownerTotals(ctx context.Context) (map[uuid.UUID]float64, error) {
	var rows []ownerTotal
	if err := s.DB.WithContext(ctx).Model(&models.Container{}).
		Select("owner_id, COALESCE(SUM(grand_total), 0) AS total").
		Group("owner_id").Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("Failed to aggregate containers", err)
	}
	out := make(map[uuid.UUID]float64, len(rows))
	for _, r := range rows {
		out[r.OwnerID] = r.Total
	}
	return out, nil
}

// ownerJoinTotals sums a line-item column grouped by the owning user of the
// parent container. Soft-deleted containers are excluded explicitly because
// the join bypasses GORM's deleted_at scope.
func (s *Service) ownerJoinTotals(ctx context.Context, table, column string) (map[uuid.UUID]float64, error) {
	var rows []ownerTotal
	if err := s.DB.WithContext(ctx).Table(table).
		Select(`"Containers".owner_id AS owner_id, COALESCE(SUM(`+table+`.`+column+`), 0) AS total`).
		Joins(`JOIN "Containers" ON "Containers".container_id = ` + table + `.container_id AND "Containers".deleted_at IS NULL`).
		Group(`"Containers".owner_id`).
		Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("Failed to aggregate ledger", err)
	}
	out := make(map[uuid.UUID]float64, len(rows))
	for _, r := range rows {
		out[r.OwnerID] = r.Total
	}
	return out, nil
}

// VendorSummary is the per-vendor rollup.
type VendorSummary struct {
	VendorID   uuid.UUID `json:"vendor_id"`
	Company    string    `json:"company"`
	Containers int64     `json:"containers"`
	TotalCost  float64   `json:"total_cost"`
}

// VendorSummaries counts and sums containers grouped by vendor. Manager-only.
func (s *Service) VendorSummaries(ctx context.Context, p *models.Principal) ([]VendorSummary, error) {
	if !p.IsManager() {
		return nil, apperr.Forbidden("Only managers may view vendor summaries")
	}
	type row struct {
		VendorID   uuid.UUID
		Containers int64
		TotalCost  float64
	}
	var rows []row
	if err := s.DB.WithContext(ctx).Model(&models.Container{}).
		Select("vendor_id, COUNT(*) AS containers, COALESCE(SUM(grand_total), 0) AS total_cost").
		Group("vendor_id").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("Failed to aggregate vendors", err)
	}
	if len(rows) == 0 {
		return []VendorSummary{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.VendorID)
	}
	var vendorRows []models.Vendor
	if err := s.DB.WithContext(ctx).Where("vendor_id IN ?", ids).Find(&vendorRows).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch vendors", err)
	}
	companies := make(map[uuid.UUID]string, len(vendorRows))
	for _, v := range vendorRows {
		companies[v.VendorID] = v.Company
	}

	out := make([]VendorSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, VendorSummary{
			VendorID:   r.VendorID,
			Company:    companies[r.VendorID],
			Containers: r.Containers,
			TotalCost:  r.TotalCost,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out, nil
}

// PeriodBucket is one calendar month of activity. Months with no activity are
// omitted; callers must handle sparse series.
type PeriodBucket struct {
	Period  string  `json:"period"` // "2006-01"
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// TimelineCutoff maps a range keyword to its start date.
func TimelineCutoff(rng string, now time.Time) (time.Time, error) {
	switch rng {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month", "":
		return now.AddDate(0, -1, 0), nil
	case "quarter":
		return now.AddDate(0, -3, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, apperr.InvalidInput("Unknown range")
}

// Timeline groups sales, expenses and purchase costs by calendar month from
// the range cutoff. Manager-only.
func (s *Service) Timeline(ctx context.Context, p *models.Principal, rng string) ([]PeriodBucket, error) {
	if !p.IsManager() {
		return nil, apperr.Forbidden("Only managers may view the timeline")
	}
	cutoff, err := TimelineCutoff(rng, time.Now())
	if err != nil {
		return nil, err
	}

	revenue := map[string]decimal.Decimal{}
	cost := map[string]decimal.Decimal{}
	bucket := func(t time.Time) string { return t.Format("2006-01") }

	var saleRows []models.SaleItem
	if err := s.DB.WithContext(ctx).Where("created_at >= ?", cutoff).Find(&saleRows).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch sales", err)
	}
	for _, r := range saleRows {
		k := bucket(r.CreatedAt)
		revenue[k] = revenue[k].Add(decimal.NewFromFloat(r.SalePrice))
	}

	var expenseRows []models.ExpenseItem
	if err := s.DB.WithContext(ctx).Where("created_at >= ?", cutoff).Find(&expenseRows).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch expenses", err)
	}
	for _, r := range expenseRows {
		k := bucket(r.CreatedAt)
		cost[k] = cost[k].Add(decimal.NewFromFloat(r.Amount))
	}

	var containerRows []models.Container
	if err := s.DB.WithContext(ctx).Where("purchased_on >= ?", cutoff).Find(&containerRows).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch containers", err)
	}
	for _, r := range containerRows {
		k := bucket(time.Time(r.PurchasedOn))
		cost[k] = cost[k].Add(decimal.NewFromFloat(r.GrandTotal).Mul(s.Rate))
	}

	periods := map[string]bool{}
	for k := range revenue {
		periods[k] = true
	}
	for k := range cost {
		periods[k] = true
	}
	keys := make([]string, 0, len(periods))
	for k := range periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]PeriodBucket, 0, len(keys))
	for _, k := range keys {
		rev := revenue[k].Round(2)
		cst := cost[k].Round(2)
		out = append(out, PeriodBucket{
			Period:  k,
			Revenue: rev.InexactFloat64(),
			Cost:    cst.InexactFloat64(),
			Profit:  rev.Sub(cst).Round(2).InexactFloat64(),
		})
	}
	return out, nil
}

// Dashboard is the global summary.
type Dashboard struct {
	PendingContainers   int64   `json:"pending_containers"`
	ShippedContainers   int64   `json:"shipped_containers"`
	CompletedContainers int64   `json:"completed_containers"`
	ActiveUsers         int64   `json:"active_users"`
	Vendors             int64   `json:"vendors"`
	TotalProfit         float64 `json:"total_profit"`
	MonthRevenue        float64 `json:"month_revenue"`
}

// Summary builds the dashboard: container counts by status, active non-manager
// users, vendors, the global profit formula, and current-calendar-month
// revenue. Manager-only.
func (s *Service) Summary(ctx context.Context, p *models.Principal) (*Dashboard, error) {
	if !p.IsManager() {
		return nil, apperr.Forbidden("Only managers may view the dashboard")
	}
	out := &Dashboard{}

	type statusCount struct {
		Status models.ContainerStatus
		N      int64
	}
	var counts []statusCount
	if err := s.DB.WithContext(ctx).Model(&models.Container{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&counts).Error; err != nil {
		return nil, apperr.Internal("Failed to count containers", err)
	}
	for _, c := range counts {
		switch c.Status {
		case models.StatusPending:
			out.PendingContainers = c.N
		case models.StatusShipped:
			out.ShippedContainers = c.N
		case models.StatusCompleted:
			out.CompletedContainers = c.N
		}
	}

	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("role <> ? AND is_active = ?", models.RoleManager, true).
		Count(&out.ActiveUsers).Error; err != nil {
		return nil, apperr.Internal("Failed to count users", err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.Vendor{}).Count(&out.Vendors).Error; err != nil {
		return nil, apperr.Internal("Failed to count vendors", err)
	}

	var totalCost, totalSales, totalExpenses float64
	if err := s.DB.WithContext(ctx).Model(&models.Container{}).
		Select("COALESCE(SUM(grand_total), 0)").Scan(&totalCost).Error; err != nil {
		return nil, apperr.Internal("Failed to total containers", err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.SaleItem{}).
		Select("COALESCE(SUM(sale_price), 0)").Scan(&totalSales).Error; err != nil {
		return nil, apperr.Internal("Failed to total sales", err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.ExpenseItem{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalExpenses).Error; err != nil {
		return nil, apperr.Internal("Failed to total expenses", err)
	}
	out.TotalProfit = s.profit(totalSales, totalExpenses, totalCost)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := s.DB.WithContext(ctx).Model(&models.SaleItem{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(sale_price), 0)").Scan(&out.MonthRevenue).Error; err != nil {
		return nil, apperr.Internal("Failed to total month revenue", err)
	}
	return out, nil
}
