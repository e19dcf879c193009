package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/RoriBoard/internal/api"
	"github.com/Rorical/RoriBoard/internal/app"
	"github.com/Rorical/RoriBoard/internal/confirm"
	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/pager"
	"github.com/Rorical/RoriBoard/ui/components"
)

var (
	listPage    int
	listPerPage int
	listQuery   string
	createTitle string
	createBody  string
	editTitle   string
	editBody    string
)

var errNotLoggedIn = errors.New("not logged in; run `roriboard login` first")

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Browse and manage posts without the full-screen board",
}

var listPostsCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			page, perPage := listPage, listPerPage
			if perPage <= 0 {
				perPage = env.Config.Current().PageSize
			}
			if listQuery != "" {
				values, err := url.ParseQuery(strings.TrimPrefix(listQuery, "?"))
				if err != nil {
					return fmt.Errorf("parse query: %w", err)
				}
				qp, qs := pager.ParseQuery(values)
				if values.Has("page") {
					page = qp
				}
				if values.Has("perPage") {
					perPage = qs
				}
			}

			ctrl := pager.NewController(env.Config.Current().Pager, perPage)
			page, _ = pager.Normalize(page, perPage)
			pg, err := env.Client.LoadPage(ctx, page, perPage)
			if err != nil {
				return err
			}
			ctrl.SetTotal(pg.Total)
			// a page past the end is clamped and fetched again
			if ctrl.RequestPage(page) {
				if pg, err = env.Client.LoadPage(ctx, ctrl.State().Page, perPage); err != nil {
					return err
				}
			}

			writePostsTable(cmd.OutOrStdout(), pg.Posts)
			st := ctrl.State()
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d · %d posts · %d per page\n", st.Page, st.LastPage(), st.Total, st.PageSize)
			fmt.Fprintf(cmd.OutOrStdout(), "?%s\n", pager.Query(st.Page, st.PageSize).Encode())
			return nil
		})
	},
}

var countPostsCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			total, err := env.Client.CountPosts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		})
	},
}

var showPostCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a post with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			user, err := env.Client.Me(ctx)
			if err != nil {
				return err
			}
			thread, err := env.Client.LoadThread(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), components.RenderThread(components.Thread{
				Post:          thread.Post,
				Comments:      thread.Comments,
				CommentCursor: -1,
				Liked:         thread.Liked,
				User:          user,
			}, components.NewMarkdown(), 80))
			return nil
		})
	},
}

var createPostCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a post",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			if !env.Session.Authenticated() {
				return errNotLoggedIn
			}
			title := strings.TrimSpace(createTitle)
			var err error
			if title == "" {
				if title, err = promptText("Title", false); err != nil {
					return err
				}
			}
			post, err := env.Client.CreatePost(ctx, title, createBody)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post created: %s\n", post.ID)
			return nil
		})
	},
}

var editPostCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title or body of one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			if !env.Session.Authenticated() {
				return errNotLoggedIn
			}
			post, err := env.Client.GetPost(ctx, args[0])
			if err != nil {
				return err
			}
			title, body := post.Title, post.Body
			if cmd.Flags().Changed("title") {
				title = strings.TrimSpace(editTitle)
			}
			if cmd.Flags().Changed("body") {
				body = editBody
			}
			if title == "" {
				return errors.New("title must not be empty")
			}
			updated, err := env.Client.UpdatePost(ctx, post.ID, title, body)
			if err != nil {
				if api.StatusOf(err) == http.StatusForbidden {
					return errors.New("only the author can edit this post")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q.\n", updated.Title)
			return nil
		})
	},
}

var deletePostCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your posts after a staged confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			user, err := env.Client.Me(ctx)
			if err != nil {
				return err
			}
			if user == nil {
				return errNotLoggedIn
			}
			post, err := env.Client.GetPost(ctx, args[0])
			if err != nil {
				return err
			}
			if post.AuthorID != user.ID {
				return errors.New("only the author can delete this post")
			}

			seq := env.Config.Current().Confirm.DeleteSequence()
			seq.OnStep = func(step, total int) {
				env.Logger.Debug("confirm step", zap.Int("step", step), zap.Int("total", total))
			}
			ok, err := seq.Run(ctx, promptConfirmer, "Delete this post?", confirm.Options{
				Title:        "DELETE",
				ConfirmLabel: "Delete",
				CancelLabel:  "Cancel",
				Danger:       true,
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := env.Client.DeletePost(ctx, post.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", post.Title)
			return nil
		})
	},
}

var likePostCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *app.Environment) error {
			if !env.Session.Authenticated() {
				return errNotLoggedIn
			}
			liked, err := env.Client.Liked(ctx, args[0])
			if err != nil {
				return err
			}
			if liked {
				err = env.Client.Unlike(ctx, args[0])
			} else {
				err = env.Client.Like(ctx, args[0])
			}
			if err != nil {
				if api.IsUnauthorized(err) {
					return errNotLoggedIn
				}
				return err
			}
			post, err := env.Client.GetPost(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s · ♥ %d\n", post.Title, post.LikesCount)
			return nil
		})
	},
}

// writePostsTable prints posts as a bordered table.
func writePostsTable(w io.Writer, posts []models.Post) {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TAG", "ID", "TITLE", "AUTHOR", "♥", "✎").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, p := range posts {
		t.Row(
			strings.ToUpper(string(models.DeriveTag(p))),
			p.ID,
			p.Title,
			p.Author(),
			strconv.Itoa(p.LikesCount),
			strconv.Itoa(p.CommentsCount),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func init() {
	listPostsCmd.Flags().IntVar(&listPage, "page", 1, "page to show")
	listPostsCmd.Flags().IntVar(&listPerPage, "per-page", 0, "posts per page (10, 15 or 30); defaults to the profile")
	listPostsCmd.Flags().StringVar(&listQuery, "query", "", "page/perPage query string copied from a board link, e.g. page=3&perPage=15")
	createPostCmd.Flags().StringVarP(&createTitle, "title", "t", "", "post title")
	createPostCmd.Flags().StringVarP(&createBody, "body", "b", "", "post body (markdown)")
	editPostCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editPostCmd.Flags().StringVarP(&editBody, "body", "b", "", "new body (markdown)")

	postsCmd.AddCommand(listPostsCmd, countPostsCmd, showPostCmd, createPostCmd, editPostCmd, deletePostCmd, likePostCmd)
	rootCmd.AddCommand(postsCmd)
}
