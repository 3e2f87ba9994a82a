package cli

var RoundHalfUp = roundHalfUp
