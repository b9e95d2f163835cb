package common

import "fmt"

func RedisKeyIssuanceLock(submissionID, rewardType string) string {
	return fmt.Sprintf("issuance_lock:%s:%s", submissionID, rewardType)
}
