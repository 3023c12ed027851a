package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/adapters/synthetic"
	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type ExportServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	factory *MockSourceFactory
	service portssvc.ExportSvc
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.factory = new(MockSourceFactory)
	suite.factory.On("ForConfig", demoConfig).Return(synthetic.NewSource()).Maybe()
	acquisition := services.NewAcquisitionService(suite.factory, new(MockTransport))
	suite.service = services.NewExportService(acquisition)
}

func (suite *ExportServiceTestSuite) readCSV(content []byte) [][]string {
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	suite.Require().NoError(err)
	return records
}

func (suite *ExportServiceTestSuite) TestCSVWholeRegister() {
	file, err := suite.service.ExportRegister(suite.ctx, domain.ExportRequest{
		Config:    demoConfig,
		Kind:      domain.Sales,
		CompanyID: "c1",
	})
	suite.Require().NoError(err)

	suite.Equal(50, file.RecordsExported)
	suite.Equal("text/csv; charset=utf-8", file.ContentType)
	suite.True(strings.HasPrefix(file.FileName, "Sales_Register_"))
	suite.True(strings.HasSuffix(file.FileName, ".csv"))

	records := suite.readCSV(file.Content)
	suite.Require().Len(records, 51)
	suite.Equal([]string{"Date", "Invoice No", "Party Name", "Amount", "Status"}, records[0])
	suite.Equal("2024-09-30", records[1][0])
	suite.Equal("Overdue", records[1][4])
}

func (suite *ExportServiceTestSuite) TestCSVSelectedIDs() {
	file, err := suite.service.ExportRegister(suite.ctx, domain.ExportRequest{
		Config:    demoConfig,
		Kind:      domain.Purchase,
		CompanyID: "c1",
		Format:    domain.ExportCSV,
		IDs:       []string{"PUR-5003", "PUR-5049", "missing"},
	})
	suite.Require().NoError(err)

	suite.Equal(2, file.RecordsExported)
	records := suite.readCSV(file.Content)
	suite.Require().Len(records, 3)
	suite.Equal("PUR-24-5003", records[1][1])
	suite.Equal("PUR-24-5049", records[2][1])
}

func (suite *ExportServiceTestSuite) TestCSVFormulaGuard() {
	src := new(MockDataSource)
	src.On("Name").Return("mock").Maybe()
	src.On("GetTransactions", mock.Anything, domain.Sales, "x1", 1, mock.Anything).Return(&domain.TransactionPage{
		Rows: []domain.Transaction{{
			ID:        "v1",
			Date:      time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
			InvoiceNo: "=HYPERLINK(\"http://evil\")",
			PartyName: "@Ravi <b>Stores</b>",
			Amount:    decimal.RequireFromString("1200.5"),
			Status:    domain.StatusPaid,
		}},
		TotalCount: 1,
		Page:       1,
		PageSize:   100,
	}, nil)
	live := domain.ConnectionConfig{BaseURL: "http://tally.local:9000"}
	suite.factory.On("ForConfig", live).Return(src)

	file, err := suite.service.ExportRegister(suite.ctx, domain.ExportRequest{Config: live, Kind: domain.Sales, CompanyID: "x1"})
	suite.Require().NoError(err)

	records := suite.readCSV(file.Content)
	suite.Require().Len(records, 2)
	suite.Equal("2024-05-02", records[1][0])
	suite.True(strings.HasPrefix(records[1][1], "'="))
	suite.Equal("'@Ravi Stores", records[1][2])
	suite.Equal("1200.50", records[1][3])
}

func (suite *ExportServiceTestSuite) TestXLSX() {
	file, err := suite.service.ExportRegister(suite.ctx, domain.ExportRequest{
		Config:    demoConfig,
		Kind:      domain.Sales,
		CompanyID: "c1",
		Format:    domain.ExportXLSX,
	})
	suite.Require().NoError(err)
	suite.Equal(50, file.RecordsExported)
	suite.True(strings.HasSuffix(file.FileName, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	suite.Require().NoError(err)
	defer wb.Close()

	rows, err := wb.GetRows("Sales Register")
	suite.Require().NoError(err)
	suite.Len(rows, 51)
	suite.Equal("Invoice No", rows[0][1])
	suite.Equal("INV-24-1000", rows[1][1])
}

func (suite *ExportServiceTestSuite) TestErrors() {
	_, err := suite.service.ExportRegister(suite.ctx, domain.ExportRequest{Config: demoConfig, Kind: domain.Sales, CompanyID: "c1", Format: "pdf"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ExportRegister(suite.ctx, domain.ExportRequest{Config: demoConfig, Kind: domain.Sales})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestExportService(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}
