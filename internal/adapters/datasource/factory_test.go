package datasource_test

import (
	"context"
	"testing"

	"github.com/ShrishPande/tallyinsight/internal/adapters/datasource"
	"github.com/ShrishPande/tallyinsight/internal/adapters/synthetic"
	"github.com/ShrishPande/tallyinsight/internal/adapters/tally"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) CheckReachable(ctx context.Context, baseURL string) bool {
	args := m.Called(ctx, baseURL)
	return args.Bool(0)
}

func (m *MockTransport) Send(ctx context.Context, baseURL, payload string) (*envelope.Node, error) {
	args := m.Called(ctx, baseURL, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelope.Node), args.Error(1)
}

func TestFactory_DemoModeUsesSyntheticSource(t *testing.T) {
	transport := new(MockTransport)
	demo := synthetic.NewSource()
	factory := datasource.NewFactory(transport, demo)

	src := factory.ForConfig(domain.ConnectionConfig{BaseURL: "http://10.0.0.5:9000", IsDemoMode: true})
	assert.Same(t, demo, src)

	companies, err := src.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, 2)
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestFactory_LiveModeBindsBaseURL(t *testing.T) {
	transport := new(MockTransport)
	factory := datasource.NewFactory(transport, synthetic.NewSource())

	doc, err := envelope.Parse(`<ENVELOPE><COMPANY NAME="Live Co"/></ENVELOPE>`)
	require.NoError(t, err)
	transport.On("Send", mock.Anything, "http://10.0.0.5:9000", mock.AnythingOfType("string")).Return(doc, nil).Once()

	src := factory.ForConfig(domain.ConnectionConfig{BaseURL: "http://10.0.0.5:9000"})
	assert.IsType(t, &tally.LiveSource{}, src)

	companies, err := src.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Live Co", companies[0].Name)
	transport.AssertExpectations(t)
}
