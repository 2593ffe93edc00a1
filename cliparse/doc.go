// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment-variable fallback. A .env file is honored for development via
godotenv. Required settings fail fast at startup rather than at first use.
*/
package cliparse
