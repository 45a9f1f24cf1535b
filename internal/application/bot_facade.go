package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/infra/i18n"
	"telegram-code-store/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	InventoryUC  usecase.InventoryUseCase
	AllocationUC usecase.AllocationUseCase
	ReportUC     usecase.ReportUseCase
	Catalog      model.Catalog
	T            *i18n.Translator
}

func NewBotFacade(
	inventoryUC usecase.InventoryUseCase,
	allocationUC usecase.AllocationUseCase,
	reportUC usecase.ReportUseCase,
	catalog model.Catalog,
	translator *i18n.Translator,
) *BotFacade {
	return &BotFacade{
		InventoryUC:  inventoryUC,
		AllocationUC: allocationUC,
		ReportUC:     reportUC,
		Catalog:      catalog,
		T:            translator,
	}
}

// HandleSend runs the full sale: deliver qty codes of the given type to the
// buyer and record the sale. User-facing failures (unknown product, not
// enough stock, delivery failure) come back as chat text, not errors.
func (b *BotFacade) HandleSend(ctx context.Context, buyerID, typeArg, qtyArg, sellerID string) (string, error) {
	typ, err := model.ParseProductType(typeArg)
	if err != nil {
		return b.T.T("msg_unknown_product"), nil
	}
	qty, err := strconv.Atoi(qtyArg)
	if err != nil || qty <= 0 {
		return b.T.T("msg_usage_send"), nil
	}

	sale, _, err := b.AllocationUC.Allocate(ctx, typ, qty, buyerID, sellerID)
	switch {
	case err == nil:
		product, _ := b.Catalog.Lookup(typ)
		return b.T.T("msg_send_success", sale.Quantity, product.Title, buyerID), nil
	case errors.Is(err, domain.ErrInsufficientStock):
		available, countErr := b.InventoryUC.CountUnused(ctx, typ)
		if countErr != nil {
			available = 0
		}
		return b.T.T("msg_insufficient_stock", available, qty), nil
	case errors.Is(err, domain.ErrDeliveryFailed):
		return b.T.T("msg_delivery_failed"), nil
	default:
		return "", fmt.Errorf("allocate: %w", err)
	}
}

// HandleAddCode adds one code to stock.
func (b *BotFacade) HandleAddCode(ctx context.Context, typeArg, payload string) (string, error) {
	typ, err := model.ParseProductType(typeArg)
	if err != nil {
		return b.T.T("msg_unknown_product"), nil
	}
	if strings.TrimSpace(payload) == "" {
		return b.T.T("msg_usage_addcode"), nil
	}
	if _, err := b.InventoryUC.AddCode(ctx, typ, strings.TrimSpace(payload)); err != nil {
		return "", fmt.Errorf("add code: %w", err)
	}
	product, _ := b.Catalog.Lookup(typ)
	return b.T.T("msg_code_added", product.Title), nil
}

// HandleImport bulk-imports codes from raw text, one payload per line.
func (b *BotFacade) HandleImport(ctx context.Context, typeArg, raw string) (string, error) {
	typ, err := model.ParseProductType(typeArg)
	if err != nil {
		return b.T.T("msg_unknown_product"), nil
	}
	payloads := b.InventoryUC.ParsePayloads(raw)
	if len(payloads) == 0 {
		return b.T.T("msg_import_empty"), nil
	}
	n, err := b.InventoryUC.BulkImport(ctx, typ, payloads)
	if err != nil {
		return "", fmt.Errorf("bulk import: %w", err)
	}
	product, _ := b.Catalog.Lookup(typ)
	return b.T.T("msg_import_success", n, product.Title), nil
}

// HandleStock renders unused counts for every product.
func (b *BotFacade) HandleStock(ctx context.Context) (string, error) {
	var sb strings.Builder
	sb.WriteString("Stock:\n")
	for _, typ := range model.AllProductTypes() {
		n, err := b.InventoryUC.CountUnused(ctx, typ)
		if err != nil {
			return "", fmt.Errorf("count unused: %w", err)
		}
		product, _ := b.Catalog.Lookup(typ)
		sb.WriteString(fmt.Sprintf("- %s: %d\n", product.Title, n))
	}
	return sb.String(), nil
}

// HandleCodes lists the unused payloads for one product, oldest first.
func (b *BotFacade) HandleCodes(ctx context.Context, typeArg string) (string, error) {
	typ, err := model.ParseProductType(typeArg)
	if err != nil {
		return b.T.T("msg_unknown_product"), nil
	}
	codes, err := b.InventoryUC.ListUnused(ctx, typ)
	if err != nil {
		return "", fmt.Errorf("list unused: %w", err)
	}
	product, _ := b.Catalog.Lookup(typ)
	if len(codes) == 0 {
		return b.T.T("msg_no_codes", product.Title), nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d unused):\n", product.Title, len(codes)))
	for _, c := range codes {
		sb.WriteString(c.Payload)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// HandleSales renders a sales summary for one window argument: "today",
// "month", a day count like "7", or "all".
func (b *BotFacade) HandleSales(ctx context.Context, windowArg string) (string, error) {
	window, ok := parseWindow(windowArg)
	if !ok {
		return b.T.T("msg_usage_sales"), nil
	}
	summary, err := b.ReportUC.Summarize(ctx, window)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if summary.TotalQuantity == 0 {
		return b.T.T("msg_no_sales"), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sales (%s):\n", windowTitle(window)))
	for _, typ := range model.AllProductTypes() {
		tt, ok := summary.PerType[typ]
		if !ok {
			continue
		}
		product, _ := b.Catalog.Lookup(typ)
		sb.WriteString(fmt.Sprintf("- %s: %d sold, Rp %s\n", product.Title, tt.Quantity, formatIDR(tt.Revenue)))
	}
	sb.WriteString(fmt.Sprintf("Total: %d sold, Rp %s\n", summary.TotalQuantity, formatIDR(summary.TotalRevenue)))
	return sb.String(), nil
}

// HandleLeaderboard ranks buyers or sellers by total quantity.
func (b *BotFacade) HandleLeaderboard(ctx context.Context, roleArg, limitArg string) (string, error) {
	var role model.LeaderboardRole
	switch roleArg {
	case "buyer", "buyers":
		role = model.RoleBuyer
	case "seller", "sellers":
		role = model.RoleSeller
	default:
		return b.T.T("msg_usage_leaderboard"), nil
	}

	limit := 0
	if limitArg != "" {
		n, err := strconv.Atoi(limitArg)
		if err != nil || n <= 0 {
			return b.T.T("msg_usage_leaderboard"), nil
		}
		limit = n
	}

	entries, err := b.ReportUC.Leaderboard(ctx, role, limit)
	if err != nil {
		return "", fmt.Errorf("leaderboard: %w", err)
	}
	if len(entries) == 0 {
		return b.T.T("msg_no_sales"), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top %ss:\n", role))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s - %d\n", i+1, e.Identity, e.TotalQuantity))
	}
	return sb.String(), nil
}

// HandleHistory shows one buyer's totals per product.
func (b *BotFacade) HandleHistory(ctx context.Context, buyerID string) (string, error) {
	if buyerID == "" {
		return b.T.T("msg_usage_history"), nil
	}
	totals, err := b.ReportUC.HistoryFor(ctx, buyerID)
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}
	if len(totals) == 0 {
		return b.T.T("msg_no_history", buyerID), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Purchases by %s:\n", buyerID))
	for _, typ := range model.AllProductTypes() {
		qty, ok := totals[typ]
		if !ok {
			continue
		}
		product, _ := b.Catalog.Lookup(typ)
		sb.WriteString(fmt.Sprintf("- %s: %d\n", product.Title, qty))
	}
	return sb.String(), nil
}

// HandlePrice quotes a total price for qty units.
func (b *BotFacade) HandlePrice(ctx context.Context, typeArg, qtyArg string) (string, error) {
	typ, err := model.ParseProductType(typeArg)
	if err != nil {
		return b.T.T("msg_unknown_product"), nil
	}
	qty, err := strconv.Atoi(qtyArg)
	if err != nil || qty <= 0 {
		return b.T.T("msg_usage_price"), nil
	}
	total, err := b.Catalog.Quote(typ, qty)
	if err != nil {
		return b.T.T("msg_unknown_product"), nil
	}
	product, _ := b.Catalog.Lookup(typ)
	return fmt.Sprintf("%d x %s = Rp %s", qty, product.Title, formatIDR(total)), nil
}

// HandleHelp returns the command reference.
func (b *BotFacade) HandleHelp() string {
	return b.T.T("msg_help")
}

func parseWindow(arg string) (model.Window, bool) {
	switch arg {
	case "today":
		return model.Today(), true
	case "month":
		return model.ThisMonth(), true
	case "all", "total":
		return model.AllTime(), true
	}
	if n, err := strconv.Atoi(arg); err == nil && n > 0 {
		return model.TrailingDays(n), true
	}
	return model.Window{}, false
}

func windowTitle(w model.Window) string {
	switch w.Kind {
	case model.WindowToday:
		return "today"
	case model.WindowThisMonth:
		return "this month"
	case model.WindowTrailingDays:
		return fmt.Sprintf("last %d days", w.Days)
	default:
		return "all time"
	}
}

// formatIDR groups digits by thousands: 19300 -> "19.300".
func formatIDR(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
		if len(s) > lead {
			sb.WriteString(".")
		}
	}
	for i := lead; i < len(s); i += 3 {
		sb.WriteString(s[i : i+3])
		if i+3 < len(s) {
			sb.WriteString(".")
		}
	}
	return sb.String()
}
