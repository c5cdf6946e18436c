package models

import (
	"errors"
	"sort"
	"strings"

	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// CategorySpendItem is one care item in the category spend report.
type CategorySpendItem struct {
	Slug      string          `json:"slug" example:"toothbrush"`
	Label     string          `json:"label" example:"Toothbrush"`
	Allocated decimal.Decimal `json:"allocated" example:"120"`  // From the budget, 0 if the budget declares no such item
	Spent     decimal.Decimal `json:"spent" example:"14.03"`    // Net ledger spend, 0 if the ledger has no such item
}

// CategorySpendReport reconciles the budget's declared items, the care item
// catalog and the actual ledger spend for one category in one year.
type CategorySpendReport struct {
	CategoryID   uuid.UUID           `json:"categoryId"`
	CategoryName string              `json:"categoryName" example:"Personal Care"`
	Allocated    decimal.Decimal     `json:"allocated" example:"4000"`
	Spent        decimal.Decimal     `json:"spent" example:"133.70"`
	Items        []CategorySpendItem `json:"items"`
}

// reportLabels is the label-priority bookkeeping per slug: budget item label
// first, then the ledger's last-seen label, then the catalog label, then the
// slug itself.
type reportLabels struct {
	budget  string
	ledger  string
	catalog string
}

func (l reportLabels) pick(slug string) string {
	if l.budget != "" {
		return l.budget
	}
	if l.ledger != "" {
		return l.ledger
	}
	if l.catalog != "" {
		return l.catalog
	}
	return slug
}

// CategorySpend builds the report for one (client, year, category).
//
// The three sources are joined only by the normalized slug, and an item does
// not need to exist in all of them to appear: the report is the union. The
// optional slugPattern is a glob filter on the unioned slugs.
func CategorySpend(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, categoryID uuid.UUID, slugPattern string) (CategorySpendReport, error) {
	report := CategorySpendReport{
		CategoryID:   categoryID,
		CategoryName: "Category",
		Allocated:    decimal.Zero,
		Spent:        decimal.Zero,
		Items:        []CategorySpendItem{},
	}

	labels := map[string]*reportLabels{}
	allocated := map[string]decimal.Decimal{}
	spent := map[string]decimal.Decimal{}

	labelsFor := func(slug string) *reportLabels {
		if labels[slug] == nil {
			labels[slug] = &reportLabels{}
		}
		return labels[slug]
	}

	// Budget sub-document, if the year declares this category
	budgetYear, err := BudgetYearFor(db, clientID, year)
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		return CategorySpendReport{}, err
	}
	if err == nil {
		if category := budgetYear.categoryByID(categoryID); category != nil {
			report.CategoryName = category.CategoryName
			report.Allocated = category.Allocated

			for _, item := range category.Items {
				allocated[item.CareItemSlug] = item.Allocated
				labelsFor(item.CareItemSlug).budget = item.Label
			}
		}
	}

	// Ledger spend, net of refunds, grouped by slug
	var lines []TransactionLine
	err = db.
		Joins("JOIN transactions ON transactions.id = transaction_lines.transaction_id").
		Where("transactions.client_id = ?", clientID).
		Where("transactions.year = ?", year).
		Where("transactions.voided_at IS NULL").
		Where("transactions.deleted_at IS NULL").
		Where("transaction_lines.category_id = ?", categoryID).
		Select("transaction_lines.*").
		Order("transactions.date ASC, transactions.created_at ASC").
		Find(&lines).Error
	if err != nil {
		return CategorySpendReport{}, err
	}

	lineTypes, err := transactionTypesFor(db, lines)
	if err != nil {
		return CategorySpendReport{}, err
	}

	for _, line := range lines {
		slug := strings.ToLower(line.CareItemSlug)
		if slug == "" {
			slug = Slugify(line.Label)
		}

		amount := line.Amount
		if lineTypes[line.TransactionID] == TransactionTypeRefund {
			amount = amount.Neg()
		}

		spent[slug] = spent[slug].Add(amount)
		l := labelsFor(slug)
		if line.Label != "" {
			l.ledger = line.Label
		}
	}

	// Care item catalog for the client and category
	catalog, err := CareItems(db, clientID, categoryID)
	if err != nil {
		return CategorySpendReport{}, err
	}
	for _, item := range catalog {
		labelsFor(item.Slug).catalog = item.Label
	}

	for slug, l := range labels {
		if slugPattern != "" && !glob.Glob(slugPattern, slug) {
			continue
		}

		itemSpent := spent[slug]
		report.Items = append(report.Items, CategorySpendItem{
			Slug:      slug,
			Label:     l.pick(slug),
			Allocated: allocated[slug],
			Spent:     itemSpent,
		})
		report.Spent = report.Spent.Add(itemSpent)
	}

	collator := collate.New(language.English)
	sort.SliceStable(report.Items, func(i, j int) bool {
		return collator.CompareString(report.Items[i].Label, report.Items[j].Label) < 0
	})

	return report, nil
}

// transactionTypesFor resolves the transaction type for each line's parent.
func transactionTypesFor(db *gorm.DB, lines []TransactionLine) (map[uuid.UUID]TransactionType, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := map[uuid.UUID]bool{}
	for _, line := range lines {
		if !seen[line.TransactionID] {
			seen[line.TransactionID] = true
			ids = append(ids, line.TransactionID)
		}
	}

	result := map[uuid.UUID]TransactionType{}
	if len(ids) == 0 {
		return result, nil
	}

	var transactions []Transaction
	err := db.Where("id IN ?", ids).Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	for _, transaction := range transactions {
		result[transaction.ID] = transaction.Type
	}

	return result, nil
}
