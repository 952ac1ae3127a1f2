// api/db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func candidateKey(resourceType, action, product string) string {
	return fmt.Sprintf("candidates:%s:%s:%s", resourceType, action, product)
}

// CacheCandidatePolicies stores one catalog lookup result. Policy content can
// embed business thresholds, so cached values are encrypted at rest.
func CacheCandidatePolicies(ctx context.Context, resourceType, action, product string, policies []*model.Policy) error {
	policiesJSON, err := json.Marshal(policies)
	if err != nil {
		return fmt.Errorf("failed to marshal candidate policies: %w", err)
	}

	encryptedPolicies, err := encrypt(policiesJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt candidate policies: %w", err)
	}

	key := candidateKey(resourceType, action, product)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedPolicies), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache candidate policies: %w", err)
	}

	logger.Debug("Candidate policies cached successfully", zap.String("key", key), zap.Int("count", len(policies)))
	return nil
}

// GetCachedCandidatePolicies returns (nil, nil) on cache miss.
func GetCachedCandidatePolicies(ctx context.Context, resourceType, action, product string) ([]*model.Policy, error) {
	key := candidateKey(resourceType, action, product)
	encryptedStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Candidate policies not found in cache", zap.String("key", key))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get candidate policies from cache: %w", err)
	}

	encryptedPolicies, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode candidate policies: %w", err)
	}

	policiesJSON, err := decrypt(encryptedPolicies)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt candidate policies: %w", err)
	}

	var policies []*model.Policy
	if err := json.Unmarshal(policiesJSON, &policies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate policies: %w", err)
	}

	logger.Debug("Candidate policies retrieved from cache", zap.String("key", key), zap.Int("count", len(policies)))
	return policies, nil
}

// InvalidateCandidatePolicies drops every cached candidate list for a
// resource type + action pair, across all product scopes.
func InvalidateCandidatePolicies(ctx context.Context, resourceType, action string) error {
	pattern := fmt.Sprintf("candidates:%s:%s:*", resourceType, action)
	iter := RedisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached candidates: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached candidates: %w", err)
	}
	logger.Debug("Candidate policy cache invalidated",
		zap.String("resourceType", resourceType),
		zap.String("action", action))
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
