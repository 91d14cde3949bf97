package actions

import (
	"bytes"
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/clickhouse/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTablePrint(t *testing.T) {
	var out bytes.Buffer
	saved := stdout
	stdout = &out
	defer func() { stdout = saved }()
	require.NoError(t, createTable(context.Background(), testLogger(), nil, "houses", false))
	assert.Equal(t, clickhouse.CreateTableDDL("houses")+"\n", out.String())
	assert.Error(t, createTable(context.Background(), testLogger(), nil, "bad name", false))
}

func TestCreateTableExecute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Exec(gomock.Any(), clickhouse.CreateTableDDL("houses")).Return(nil)
	require.NoError(t, createTable(context.Background(), testLogger(), store, "houses", true))
}
