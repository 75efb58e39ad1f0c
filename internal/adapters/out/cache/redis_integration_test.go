package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/cache"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisTemplateCacheTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
}

func (suite *RedisTemplateCacheTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.rdb = redis.NewClient(&redis.Options{Addr: endpoint})
}

func (suite *RedisTemplateCacheTestSuite) TearDownSuite() {
	if suite.rdb != nil {
		suite.Require().NoError(suite.rdb.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisTemplateCacheTestSuite) SetupTest() {
	suite.Require().NoError(suite.rdb.FlushAll(context.Background()).Err())
}

func (suite *RedisTemplateCacheTestSuite) TestPutGetInvalidate() {
	ctx := context.Background()
	c := cache.NewRedisTemplateCache(suite.rdb, time.Minute, nil)

	_, ok := c.Get(ctx, "style:factory-1:FZ001")
	suite.False(ok)

	c.Put(ctx, "style:factory-1:FZ001", resolved(3))
	got, ok := c.Get(ctx, "style:factory-1:FZ001")
	suite.Require().True(ok)
	suite.Equal(template.SourceStyleProcess, got.Source)
	suite.Equal(3, got.Version)
	suite.Require().Len(got.Nodes, 2)
	suite.True(got.Nodes[0].UnitPrice.Equal(resolved(3).Nodes[0].UnitPrice))

	ttl, err := suite.rdb.TTL(ctx, "fz:template:style:factory-1:FZ001").Result()
	suite.Require().NoError(err)
	suite.Positive(ttl)

	c.Invalidate(ctx, "style:factory-1:FZ001")
	_, ok = c.Get(ctx, "style:factory-1:FZ001")
	suite.False(ok)
}

func (suite *RedisTemplateCacheTestSuite) TestCorruptEntryIsDropped() {
	ctx := context.Background()
	c := cache.NewRedisTemplateCache(suite.rdb, time.Minute, nil)
	suite.Require().NoError(suite.rdb.Set(ctx, "fz:template:broken", "{not json", time.Minute).Err())

	_, ok := c.Get(ctx, "broken")
	suite.False(ok)

	exists, err := suite.rdb.Exists(ctx, "fz:template:broken").Result()
	suite.Require().NoError(err)
	suite.Zero(exists)
}

func (suite *RedisTemplateCacheTestSuite) TestUnreachableRedisIsAMiss() {
	ctx := context.Background()
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer func() { _ = down.Close() }()
	c := cache.NewRedisTemplateCache(down, time.Minute, nil)

	c.Put(ctx, "a", resolved(1))
	_, ok := c.Get(ctx, "a")
	suite.False(ok)
	c.Invalidate(ctx, "a")
}

func TestRedisTemplateCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RedisTemplateCacheTestSuite))
}
