// Package cron schedules recurring workflow submissions. Entries are
// registered with a standard 5-field cron expression or a descriptor
// like "@every 30s"; a tick loop fires due entries by invoking the
// configured submit callback.
//
// The scheduler is single-process. Running several schedulers against
// the same entry set will double-fire.
package cron
