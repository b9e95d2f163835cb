package rewardissuer

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/shopspring/decimal"
)

var ErrInvalidReward = errors.New("invalid reward")

// Reward is a reward requested by a reviewer or configured on a challenge.
type Reward struct {
	Type     entity.RewardType `mapstructure:"type"`
	Amount   decimal.Decimal   `mapstructure:"amount"`
	Currency string            `mapstructure:"currency"`
	SkuID    string            `mapstructure:"sku_id"`
	Provider string            `mapstructure:"provider"`
}

// Spec is a reward to be issued to a user.
type Spec struct {
	WorkspaceID  string
	UserID       string
	ChallengeID  string
	SubmissionID string
	Reward
	CreatedBy string
}

// ResolveReward picks the reward of an approved submission. An explicit
// reward wins over the legacy points amount, which wins over the challenge
// default. It returns nil when nothing should be issued.
func ResolveReward(explicit *Reward, legacyPoints int64, challenge *entity.Challenge) (*Reward, error) {
	if explicit != nil {
		if err := Validate(explicit); err != nil {
			return nil, err
		}
		return explicit, nil
	}

	if legacyPoints > 0 {
		return &Reward{Type: entity.PointsReward, Amount: decimal.NewFromInt(legacyPoints)}, nil
	}

	if challenge == nil || challenge.RewardType == "" {
		return nil, nil
	}

	reward, err := DecodeRewardConfig(challenge.RewardType, challenge.RewardConfig)
	if err != nil {
		return nil, err
	}

	if err := Validate(reward); err != nil {
		return nil, err
	}

	return reward, nil
}

// DecodeRewardConfig reads the reward configuration stored on a challenge.
func DecodeRewardConfig(rewardType entity.RewardType, data map[string]any) (*Reward, error) {
	reward := &Reward{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decimalHook,
		WeaklyTypedInput: true,
		Result:           reward,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReward, err)
	}

	reward.Type = rewardType
	return reward, nil
}

func Validate(r *Reward) error {
	switch r.Type {
	case entity.PointsReward:
		if !r.Amount.IsPositive() || !r.Amount.IsInteger() {
			return fmt.Errorf("%w: points amount must be a positive integer", ErrInvalidReward)
		}

	case entity.SkuReward:
		if r.SkuID == "" {
			return fmt.Errorf("%w: sku_id is required", ErrInvalidReward)
		}
		if r.Amount.IsZero() {
			r.Amount = decimal.NewFromInt(1)
		}
		if !r.Amount.IsPositive() {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidReward)
		}

	case entity.MonetaryReward:
		if !r.Amount.IsPositive() {
			return fmt.Errorf("%w: amount must be positive", ErrInvalidReward)
		}
		if len(r.Currency) != 3 {
			return fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidReward)
		}

	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidReward, r.Type)
	}

	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return decimal.NewFromString(v)
	case json.Number:
		// JSON columns read back from the database keep numbers as json.Number.
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	}

	return nil, fmt.Errorf("cannot convert %T to decimal", data)
}
