// Package bot holds the repositories for the four record kinds the bot persists:
// registrations (upserted by chat id) and the append-only chat, file and search logs.
package bot
