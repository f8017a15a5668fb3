package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/tieubaoca/retriever-be/types"
)

// DummyDataConfig controls how many documents of each family are generated.
type DummyDataConfig struct {
	NumSalesReports  int
	NumProjectDocs   int
	NumTechnicalDocs int
	NumHRDocs        int
	NumFinancialDocs int
}

var DefaultDummyDataConfig = DummyDataConfig{
	NumSalesReports:  20,
	NumProjectDocs:   25,
	NumTechnicalDocs: 15,
	NumHRDocs:        12,
	NumFinancialDocs: 10,
}

// DummyDataService generates realistic corporate documents for seeding
// a knowledge base during development and demos.
type DummyDataService struct {
	config DummyDataConfig
	rng    *rand.Rand
}

var (
	productNames = []string{
		"Phoenix", "Titan", "Nexus", "Quantum", "Stellar", "Horizon",
		"Apex", "Vertex", "Prism", "Catalyst", "Aurora", "Zenith",
	}
	departments = []string{
		"Sales", "Engineering", "Marketing", "HR", "Finance", "Operations",
		"Product", "Support", "Legal", "Strategy",
	}
	authors = []string{
		"Sarah Johnson", "Mike Chen", "Lisa Rodriguez", "David Kim",
		"Alex Thompson", "Jennifer Liu", "Roberto Martinez", "Emily Chen",
	}
	systemNames = []string{
		"Authentication Service", "Payment Gateway", "Analytics Pipeline",
		"Notification Engine", "Search Cluster", "Billing System",
	}
	hrDocTypes      = []string{"policy", "handbook", "onboarding", "benefits"}
	policyNames     = []string{"Remote Work", "Code of Conduct", "Travel Expenses", "Equipment"}
	financeDocTypes = []string{"budget", "quarterly_statement", "expense_report", "forecast"}
	projectDocTypes = []string{"retrospective", "planning", "status_update", "requirements"}
	techDocTypes    = []string{"architecture", "api_reference", "runbook", "design_review"}
)

func NewDummyDataService(config DummyDataConfig) *DummyDataService {
	return &DummyDataService{
		config: config,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateAll produces every document family in one batch.
func (s *DummyDataService) GenerateAll() []types.Document {
	docs := make([]types.Document, 0,
		s.config.NumSalesReports+s.config.NumProjectDocs+s.config.NumTechnicalDocs+
			s.config.NumHRDocs+s.config.NumFinancialDocs)
	docs = append(docs, s.GenerateSalesReports()...)
	docs = append(docs, s.GenerateProjectDocuments()...)
	docs = append(docs, s.GenerateTechnicalDocuments()...)
	docs = append(docs, s.GenerateHRDocuments()...)
	docs = append(docs, s.GenerateFinancialDocuments()...)
	return docs
}

func (s *DummyDataService) GenerateSalesReports() []types.Document {
	docs := make([]types.Document, 0, s.config.NumSalesReports)
	for i := 0; i < s.config.NumSalesReports; i++ {
		date := s.randomDate()
		quarter := fmt.Sprintf("Q%d", (int(date.Month())-1)/3+1)
		year := date.Year()

		revenue := s.rng.Intn(7000000) + 8000000
		target := s.rng.Intn(5000000) + 7000000
		performance := "challenging"
		if revenue > target {
			performance = "strong"
		}

		content := fmt.Sprintf(`%s %d Sales Performance Report

Executive Summary:
The %s %d quarter shows %s performance for our sales organization.

Key Metrics:
- Total Revenue: $%d (%d%% of target)
- New Enterprise Customers: %d
- Average Deal Size: $%d
- Sales Cycle: %d days (avg)

Regional Performance:
- North America: $%d
- Europe: $%d
- Asia-Pacific: $%d

Product Performance:
- %s Platform: %d%% of total revenue
- Professional Services: %d%% of total revenue
- Support & Maintenance: %d%% of total revenue

Forecast:
Next quarter projection: $%d`,
			quarter, year, quarter, year, performance,
			revenue, revenue*100/target,
			s.rng.Intn(25)+15,
			s.rng.Intn(50000)+30000,
			s.rng.Intn(75)+45,
			revenue*60/100, revenue*25/100, revenue*15/100,
			s.pick(productNames), s.rng.Intn(20)+40, s.rng.Intn(10)+15, s.rng.Intn(10)+20,
			revenue+s.rng.Intn(revenue/5),
		)

		docs = append(docs, types.Document{
			Metadata: types.DocumentMetadata{
				ID:          fmt.Sprintf("sales_report_%s_%d_%d", strings.ToLower(quarter), year, i),
				Title:       fmt.Sprintf("%s %d Sales Performance Report", quarter, year),
				Source:      "sales_department",
				ContentType: types.ContentTypePDF,
				CreatedAt:   date.Format(time.RFC3339),
				ModifiedAt:  date.Format(time.RFC3339),
				Author:      s.pick(authors),
				Keywords:    []string{"sales", "performance", strings.ToLower(quarter), fmt.Sprintf("%d", year), "revenue", "targets"},
				FileSize:    int64(s.rng.Intn(150000) + 50000),
				PageCount:   s.rng.Intn(17) + 8,
			},
			Content: content,
		})
	}
	return docs
}

func (s *DummyDataService) GenerateProjectDocuments() []types.Document {
	docs := make([]types.Document, 0, s.config.NumProjectDocs)
	for i := 0; i < s.config.NumProjectDocs; i++ {
		date := s.randomDate()
		projectName := "Project " + s.pick(productNames)
		docType := s.pick(projectDocTypes)

		content := fmt.Sprintf(`%s - %s (%s)

Project Overview:
%s aimed to improve system capabilities through focused development.

Timeline:
- Project Duration: %d months
- Team Size: %d members
- Budget: $%d

Key Metrics:
- User Adoption: %d%% of target users
- Performance Improvement: %d%% faster response times
- Customer Satisfaction: %d.%d/5

Lessons Learned:
Early stakeholder engagement and automated testing were the biggest
contributors to this project's outcome.`,
			projectName, titleCase(docType), date.Format("January 2006"),
			projectName,
			s.rng.Intn(9)+3, s.rng.Intn(10)+5, s.rng.Intn(450000)+50000,
			s.rng.Intn(35)+60, s.rng.Intn(40)+10,
			s.rng.Intn(2)+3, s.rng.Intn(10),
		)

		idName := strings.ToLower(strings.ReplaceAll(projectName, " ", "_"))
		docs = append(docs, types.Document{
			Metadata: types.DocumentMetadata{
				ID:          fmt.Sprintf("project_%s_%s_%d", idName, docType, i),
				Title:       fmt.Sprintf("%s - %s", projectName, titleCase(docType)),
				Source:      "project_management",
				ContentType: types.ContentTypeText,
				CreatedAt:   date.Format(time.RFC3339),
				ModifiedAt:  date.Format(time.RFC3339),
				Author:      s.pick(authors),
				Keywords:    []string{"project", strings.ToLower(projectName), docType, "development", "planning"},
				FileSize:    int64(s.rng.Intn(80000) + 20000),
			},
			Content: content,
		})
	}
	return docs
}

func (s *DummyDataService) GenerateTechnicalDocuments() []types.Document {
	docs := make([]types.Document, 0, s.config.NumTechnicalDocs)
	for i := 0; i < s.config.NumTechnicalDocs; i++ {
		date := s.randomDate()
		systemName := s.pick(systemNames)
		docType := s.pick(techDocTypes)

		content := fmt.Sprintf(`%s - %s

Overview:
This document describes the %s and its operational characteristics.

Architecture:
- Service replicas: %d
- Average latency: %dms (p99)
- Throughput: %d requests/second
- Storage: %dGB allocated

Dependencies:
The system integrates with the message broker, the metrics pipeline and
the central configuration service.

Operational Notes:
On-call runbooks and dashboards are maintained by the owning team.
Deployment is fully automated with rollback on failed health checks.`,
			systemName, titleCase(docType),
			strings.ToLower(systemName),
			s.rng.Intn(10)+2, s.rng.Intn(200)+20, s.rng.Intn(5000)+500, s.rng.Intn(500)+50,
		)

		idName := strings.ToLower(strings.ReplaceAll(systemName, " ", "_"))
		docs = append(docs, types.Document{
			Metadata: types.DocumentMetadata{
				ID:          fmt.Sprintf("tech_doc_%s_%s_%d", idName, docType, i),
				Title:       fmt.Sprintf("%s - %s", systemName, titleCase(docType)),
				Source:      "engineering",
				ContentType: types.ContentTypeMarkdown,
				CreatedAt:   date.Format(time.RFC3339),
				ModifiedAt:  date.Format(time.RFC3339),
				Author:      s.pick(authors),
				Keywords:    []string{"technical", "documentation", strings.ToLower(systemName), docType, "engineering"},
				FileSize:    int64(s.rng.Intn(60000) + 10000),
			},
			Content: content,
		})
	}
	return docs
}

func (s *DummyDataService) GenerateHRDocuments() []types.Document {
	docs := make([]types.Document, 0, s.config.NumHRDocs)
	for i := 0; i < s.config.NumHRDocs; i++ {
		date := s.randomDate()
		docType := s.pick(hrDocTypes)
		title := "HR - " + titleCase(docType)
		keywords := []string{"hr", "human resources", docType, "policy", "employee"}
		if docType == "policy" {
			policy := s.pick(policyNames)
			title = fmt.Sprintf("%s (%s)", title, policy)
			keywords = append(keywords, strings.ToLower(policy))
		}

		content := fmt.Sprintf(`%s

Purpose:
This document defines company guidelines applicable to all employees.

Scope:
Applies to all full-time and part-time staff across every office.

Guidelines:
- Review cycle: every %d months
- Approval authority: %s department
- Effective date: %s

Questions about this document should be directed to the HR team.`,
			title, s.rng.Intn(10)+2, s.pick(departments), date.Format("January 2, 2006"),
		)

		docs = append(docs, types.Document{
			Metadata: types.DocumentMetadata{
				ID:          fmt.Sprintf("hr_doc_%s_%d", docType, i),
				Title:       title,
				Source:      "human_resources",
				ContentType: types.ContentTypeText,
				CreatedAt:   date.Format(time.RFC3339),
				ModifiedAt:  date.Format(time.RFC3339),
				Author:      s.pick(authors),
				Keywords:    keywords,
				FileSize:    int64(s.rng.Intn(40000) + 5000),
			},
			Content: content,
		})
	}
	return docs
}

func (s *DummyDataService) GenerateFinancialDocuments() []types.Document {
	docs := make([]types.Document, 0, s.config.NumFinancialDocs)
	for i := 0; i < s.config.NumFinancialDocs; i++ {
		date := s.randomDate()
		docType := s.pick(financeDocTypes)
		department := s.pick(departments)
		title := "Finance - " + titleCase(docType)
		if docType == "budget" {
			title = fmt.Sprintf("%s (%s)", title, department)
		}

		content := fmt.Sprintf(`%s

Summary:
Financial overview prepared by the finance team for %s.

Figures:
- Allocated budget: $%d
- Actual spend: $%d
- Variance: %d%%
- Headcount cost: $%d

Notes:
Figures are unaudited and subject to quarterly review.`,
			title, date.Format("January 2006"),
			s.rng.Intn(900000)+100000, s.rng.Intn(900000)+100000,
			s.rng.Intn(30)-15, s.rng.Intn(500000)+100000,
		)

		docs = append(docs, types.Document{
			Metadata: types.DocumentMetadata{
				ID:          fmt.Sprintf("finance_doc_%s_%d", docType, i),
				Title:       title,
				Source:      "finance",
				ContentType: types.ContentTypePDF,
				CreatedAt:   date.Format(time.RFC3339),
				ModifiedAt:  date.Format(time.RFC3339),
				Author:      s.pick(authors),
				Keywords:    []string{"finance", "financial", docType, "budget", "expenses"},
				FileSize:    int64(s.rng.Intn(100000) + 20000),
				PageCount:   s.rng.Intn(10) + 2,
			},
			Content: content,
		})
	}
	return docs
}

func (s *DummyDataService) randomDate() time.Time {
	return time.Now().AddDate(0, 0, -(s.rng.Intn(700) + 30)).UTC()
}

func (s *DummyDataService) pick(values []string) string {
	return values[s.rng.Intn(len(values))]
}

func titleCase(snake string) string {
	parts := strings.Split(snake, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
