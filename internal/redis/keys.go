package redisx

import "fmt"

const ns = "eth:v1"

func KeyLocationStates() string {
	return ns + ":locations:states"
}

func KeyLocationLGAs(stateCode string) string {
	return fmt.Sprintf("%s:locations:%s:lgas", ns, stateCode)
}

func KeyContestantTally(contestantID string) string {
	return fmt.Sprintf("%s:contestant:%s:tally", ns, contestantID)
}

func KeyOTP(email, purpose string) string {
	return fmt.Sprintf("%s:otp:%s:%s", ns, purpose, email)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelContestantsChanged() string {
	return ns + ":contestants:changed"
}
