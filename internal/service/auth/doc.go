// Package auth authorizes an application on Strava on behalf of a known user.
//
// It replays the browser consent flow over plain HTTP: the authorization page,
// the login form, the consent form and the code exchange. Anti-forgery tokens
// are read from the returned HTML, and the resulting token is wrapped into a
// self-refreshing strava.Session.
package auth
